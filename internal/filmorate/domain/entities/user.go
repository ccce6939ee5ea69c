package entities

import "time"

// User представляет пользователя каталога.
type User struct {
	ID       int64
	Email    string
	Login    string
	Name     string
	Birthday time.Time
	// Friends - идентификаторы друзей, упорядоченные по возрастанию.
	Friends []int64
}

// ApplyDefaults подставляет login вместо пустого имени.
func (u *User) ApplyDefaults() {
	if isBlank(u.Name) {
		u.Name = u.Login
	}
}

// Clone возвращает копию, не разделяющую срез друзей с исходной.
func (u *User) Clone() *User {
	c := *u
	c.Friends = append([]int64(nil), u.Friends...)
	return &c
}
