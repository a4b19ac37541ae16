// Package auth содержит политику доступа к административным операциям.
package auth

import "github.com/magabrotheeeer/grant-matching/internal/models"

// Policy решает, является ли пользователь администратором.
// Список адресов передаётся при создании и после этого не меняется.
type Policy struct {
	admins map[string]struct{}
}

// NewPolicy создаёт политику по списку адресов администраторов.
func NewPolicy(adminEmails []string) *Policy {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email != "" {
			admins[email] = struct{}{}
		}
	}
	return &Policy{admins: admins}
}

// IsAdmin сообщает, входит ли почта пользователя в список администраторов.
// Сравнение чувствительно к регистру; пользователь без почты администратором не является.
func (p *Policy) IsAdmin(principal models.Principal) bool {
	if principal.Email == "" {
		return false
	}
	_, ok := p.admins[principal.Email]
	return ok
}
