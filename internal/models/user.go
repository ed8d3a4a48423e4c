package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Language is one of the supported interface languages
type Language string

const (
	LanguageEnglish  Language = "en"
	LanguageSpanish  Language = "es"
	LanguageFrench   Language = "fr"
	LanguageGerman   Language = "de"
	LanguageJapanese Language = "ja"
	LanguageRussian  Language = "ru"
)

// Languages lists every supported language code
var Languages = []Language{
	LanguageEnglish, LanguageSpanish, LanguageFrench, LanguageGerman, LanguageJapanese, LanguageRussian,
}

// Valid reports whether l is a supported language code
func (l Language) Valid() bool {
	for _, s := range Languages {
		if s == l {
			return true
		}
	}
	return false
}

type Preferences struct {
	Language         Language `json:"language"`
	Theme            Theme    `json:"theme"`
	BreathingEnabled bool     `json:"breathing_enabled"`
}

// DefaultPreferences returns the preferences given to new and legacy users
func DefaultPreferences() Preferences {
	return Preferences{Language: LanguageEnglish, Theme: ThemeLight, BreathingEnabled: true}
}

type Status struct {
	Text  string `json:"text"`
	Emoji string `json:"emoji"`
}

// User is a profile in the users collection
type User struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Handle         string      `json:"handle"`
	Email          string      `json:"email"`
	Password       string      `json:"password,omitempty"` // bcrypt hash
	FirebaseUID    string      `json:"firebase_uid,omitempty"`
	Role           Role        `json:"role"`
	Avatar         string      `json:"avatar"`
	CoverImage     string      `json:"cover_image"`
	Bio            string      `json:"bio"`
	Location       string      `json:"location,omitempty"`
	Status         *Status     `json:"status,omitempty"`
	FollowerCount  int         `json:"follower_count"`
	FollowingCount int         `json:"following_count"`
	FollowingIDs   []string    `json:"following_ids"`
	BelledUserIDs  []string    `json:"belled_user_ids"`
	IsBanned       bool        `json:"is_banned"`
	IsPrivate      bool        `json:"is_private"`
	Preferences    Preferences `json:"preferences"`
	JoinedAt       time.Time   `json:"joined_at"`
}

// UserCompact is the public projection of a user embedded in other payloads
type UserCompact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Avatar string `json:"avatar"`
	Role   Role   `json:"role"`
}

// ToCompact returns the public projection of u
func (u User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, Handle: u.Handle, Avatar: u.Avatar, Role: u.Role}
}

// Public strips credentials before u leaves the process
func (u User) Public() User {
	u.Password = ""
	u.FirebaseUID = ""
	return u
}

// Follows reports whether u follows the given user
func (u User) Follows(userID string) bool {
	return ContainsID(u.FollowingIDs, userID)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Handle   string `json:"handle" validate:"required,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Avatar   string `json:"avatar,omitempty" validate:"omitempty,url"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio        *string `json:"bio,omitempty" validate:"omitempty,max=300"`
	Location   *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Avatar     *string `json:"avatar,omitempty" validate:"omitempty,url"`
	CoverImage *string `json:"cover_image,omitempty" validate:"omitempty,url"`
}

type UpdateStatusRequest struct {
	Text  string `json:"text" validate:"max=140"`
	Emoji string `json:"emoji" validate:"max=16"`
}

type ChangePasswordRequest struct {
	Current string `json:"current" validate:"required"`
	Next    string `json:"next" validate:"required,min=8"`
}

type PreferencesRequest struct {
	Theme            *Theme    `json:"theme,omitempty" validate:"omitempty,oneof=light dark"`
	Language         *Language `json:"language,omitempty" validate:"omitempty,oneof=en es fr de ja ru"`
	BreathingEnabled *bool     `json:"breathing_enabled,omitempty"`
}

type BaseConnectionRequest struct {
	Connected *bool `json:"connected" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
