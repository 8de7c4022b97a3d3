// Package permission описывает правила доступа к ресурсам API.
// Проверка идёт в два этапа: HasPermission до загрузки объекта и
// HasObjectPermission, когда известен владелец объекта.
package permission

import "net/http"

// Principal - вызывающий пользователь. Нулевое значение соответствует анониму.
type Principal struct {
	UserID  uint
	IsStaff bool
}

// Authenticated сообщает, что запрос пришёл с валидным токеном
func (p Principal) Authenticated() bool {
	return p.UserID != 0
}

// Permission - правило доступа
type Permission interface {
	HasPermission(method string, principal Principal) bool
	HasObjectPermission(method string, principal Principal, ownerID uint) bool
}

// IsSafeMethod возвращает true для методов, не изменяющих состояние
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// StaffOrReadOnly: чтение доступно всем, запись только персоналу
type StaffOrReadOnly struct{}

func (StaffOrReadOnly) HasPermission(method string, principal Principal) bool {
	return IsSafeMethod(method) || (principal.Authenticated() && principal.IsStaff)
}

func (p StaffOrReadOnly) HasObjectPermission(method string, principal Principal, _ uint) bool {
	return p.HasPermission(method, principal)
}

// AuthenticatedOrReadOnly: чтение доступно всем, запись только аутентифицированным
type AuthenticatedOrReadOnly struct{}

func (AuthenticatedOrReadOnly) HasPermission(method string, principal Principal) bool {
	return IsSafeMethod(method) || principal.Authenticated()
}

func (p AuthenticatedOrReadOnly) HasObjectPermission(method string, principal Principal, _ uint) bool {
	return p.HasPermission(method, principal)
}

// FeedbackOwner: отзыв читают все, изменяет и удаляет только автор
type FeedbackOwner struct{}

func (FeedbackOwner) HasPermission(method string, principal Principal) bool {
	return IsSafeMethod(method) || principal.Authenticated()
}

func (FeedbackOwner) HasObjectPermission(method string, principal Principal, ownerID uint) bool {
	if IsSafeMethod(method) {
		return true
	}
	return principal.Authenticated() && principal.UserID == ownerID
}

// IsAuthenticated: любой метод только для аутентифицированных
type IsAuthenticated struct{}

func (IsAuthenticated) HasPermission(_ string, principal Principal) bool {
	return principal.Authenticated()
}

func (IsAuthenticated) HasObjectPermission(_ string, principal Principal, _ uint) bool {
	return principal.Authenticated()
}

// StaffOrSelf: персонал или сам пользователь (управление учётными записями)
type StaffOrSelf struct{}

func (StaffOrSelf) HasPermission(_ string, principal Principal) bool {
	return principal.Authenticated()
}

func (StaffOrSelf) HasObjectPermission(_ string, principal Principal, ownerID uint) bool {
	return principal.Authenticated() && (principal.IsStaff || principal.UserID == ownerID)
}

// IsStaff: только персонал, независимо от метода
type IsStaff struct{}

func (IsStaff) HasPermission(_ string, principal Principal) bool {
	return principal.Authenticated() && principal.IsStaff
}

func (p IsStaff) HasObjectPermission(method string, principal Principal, _ uint) bool {
	return p.HasPermission(method, principal)
}
