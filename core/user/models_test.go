package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestUser_photoURL(t *testing.T) {
	tests := []struct {
		name  string
		photo string
		want  string
	}{
		{name: "no photo", photo: "", want: FallbackAvatarPath},
		{name: "whitespace only", photo: "   ", want: FallbackAvatarPath},
		{name: "bundled avatar", photo: "avatar3.svg", want: "/avatars/avatar3.svg"},
		{name: "uploaded file", photo: "photos/abc123.jpg", want: "/storage/photos/abc123.jpg"},
		{name: "absolute path untouched", photo: "/storage/photos/abc123.jpg", want: "/storage/photos/abc123.jpg"},
		{name: "full url untouched", photo: "https://cdn.test.cd/p.jpg", want: "https://cdn.test.cd/p.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr := User{Photo: null.NewString(tt.photo, tt.photo != "")}
			assert.Equal(t, tt.want, usr.PhotoURL())
		})
	}
}

// the flag and the role are two independent backend signals for the same
// privilege; either one suffices
func TestUser_isSuperAdmin(t *testing.T) {
	tests := []struct {
		name string
		usr  User
		want bool
	}{
		{name: "plain student", usr: User{Role: RoleStudent}, want: false},
		{name: "plain admin", usr: User{Role: RoleAdmin}, want: false},
		{name: "super admin role", usr: User{Role: RoleSuperAdmin}, want: true},
		{name: "flag only", usr: User{Role: RoleAdmin, IsSuperAdmin: true}, want: true},
		{name: "flag on a student", usr: User{Role: RoleStudent, IsSuperAdmin: true}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.usr.IsSuperAdminUser())
		})
	}
}

func TestUser_applyPatch(t *testing.T) {
	usr := User{ID: 1, Nom: "Amani", Ville: null.StringFrom("Bukavu")}

	nom, photo := "Amani Eto", "avatar2.svg"
	merged := usr.Apply(Patch{Nom: &nom, Photo: &photo})

	assert.Equal(t, "Amani Eto", merged.Nom)
	assert.Equal(t, "avatar2.svg", merged.Photo.String)
	// untouched fields survive
	assert.Equal(t, "Bukavu", merged.Ville.String)
	// the receiver is not mutated
	assert.Equal(t, "Amani", usr.Nom)
}
