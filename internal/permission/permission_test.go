package permission

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	anonymous = Principal{}
	member    = Principal{UserID: 5}
	staff     = Principal{UserID: 1, IsStaff: true}
)

func TestStaffOrReadOnly(t *testing.T) {
	p := StaffOrReadOnly{}

	tests := []struct {
		name      string
		method    string
		principal Principal
		want      bool
	}{
		{name: "аноним читает", method: http.MethodGet, principal: anonymous, want: true},
		{name: "аноним не пишет", method: http.MethodPost, principal: anonymous, want: false},
		{name: "пользователь не пишет", method: http.MethodPut, principal: member, want: false},
		{name: "персонал пишет", method: http.MethodDelete, principal: staff, want: true},
		{name: "флаг персонала без входа не работает", method: http.MethodPost, principal: Principal{IsStaff: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.HasPermission(tt.method, tt.principal))
			assert.Equal(t, tt.want, p.HasObjectPermission(tt.method, tt.principal, 99))
		})
	}
}

func TestAuthenticatedOrReadOnly(t *testing.T) {
	p := AuthenticatedOrReadOnly{}
	assert.True(t, p.HasPermission(http.MethodGet, anonymous))
	assert.False(t, p.HasPermission(http.MethodPost, anonymous))
	assert.True(t, p.HasPermission(http.MethodPost, member))
}

func TestFeedbackOwner(t *testing.T) {
	p := FeedbackOwner{}
	const owner = 5

	assert.True(t, p.HasObjectPermission(http.MethodGet, anonymous, owner), "Отзыв читают все")
	assert.True(t, p.HasObjectPermission(http.MethodPut, member, owner), "Автор может изменить отзыв")
	assert.True(t, p.HasObjectPermission(http.MethodDelete, member, owner), "Автор может удалить отзыв")
	assert.False(t, p.HasObjectPermission(http.MethodPut, staff, owner), "Персонал не редактирует чужой отзыв")
	assert.False(t, p.HasObjectPermission(http.MethodDelete, anonymous, owner))
	assert.False(t, p.HasPermission(http.MethodPatch, anonymous))
}

func TestIsAuthenticated(t *testing.T) {
	p := IsAuthenticated{}
	assert.False(t, p.HasPermission(http.MethodGet, anonymous), "Даже чтение требует входа")
	assert.True(t, p.HasPermission(http.MethodPost, member))
}

func TestStaffOrSelf(t *testing.T) {
	p := StaffOrSelf{}
	assert.True(t, p.HasObjectPermission(http.MethodGet, member, 5))
	assert.False(t, p.HasObjectPermission(http.MethodGet, member, 6))
	assert.True(t, p.HasObjectPermission(http.MethodDelete, staff, 6))
	assert.False(t, p.HasObjectPermission(http.MethodGet, anonymous, 0), "Аноним не совпадает с нулевым владельцем")
}

func TestIsStaff(t *testing.T) {
	p := IsStaff{}
	assert.True(t, p.HasPermission(http.MethodGet, staff))
	assert.False(t, p.HasPermission(http.MethodGet, member), "Обычному пользователю список недоступен")
	assert.False(t, p.HasPermission(http.MethodGet, anonymous))
}
