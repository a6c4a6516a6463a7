package user

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/somalms/soma/core"
)

// Roles, as transmitted by the backend.
const (
	RoleStudent    = "etudiant"
	RoleTeacher    = "formateur"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

var Roles = []Role{
	{Name: "Student", Value: RoleStudent},
	{Name: "Teacher", Value: RoleTeacher},
	{Name: "Admin", Value: RoleAdmin},
	{Name: "Super Admin", Value: RoleSuperAdmin},
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User mirrors the backend user record. Role is immutable from this side;
// only backend/admin actions change it.
type User struct {
	ID           int         `json:"id"`
	Nom          string      `json:"nom"`
	Email        string      `json:"email"`
	Role         string      `json:"role"`
	IsSuperAdmin bool        `json:"is_super_admin"`
	IsActive     bool        `json:"is_active"`
	Tel          null.String `json:"tel"`
	Ville        null.String `json:"ville"`
	VilleOrigine null.String `json:"villeOrigine"`
	Naissance    null.String `json:"naissance"`
	Photo        null.String `json:"photo"`
}

func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperAdminUser()
}

// IsSuperAdminUser honors both elevation signals the backend may send:
// role == "super_admin" or the is_super_admin flag; either one wins.
func (u User) IsSuperAdminUser() bool {
	return u.Role == RoleSuperAdmin || u.IsSuperAdmin
}

func (u User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
		if r == RoleSuperAdmin && u.IsSuperAdminUser() {
			return true
		}
	}
	return false
}

// Patch is a shallow profile merge: nil fields are left untouched.
type Patch struct {
	Nom          *string `json:"nom,omitempty"`
	Tel          *string `json:"tel,omitempty"`
	Ville        *string `json:"ville,omitempty"`
	VilleOrigine *string `json:"villeOrigine,omitempty"`
	Naissance    *string `json:"naissance,omitempty"`
	Photo        *string `json:"photo,omitempty"`
}

// Apply returns a copy of u with the non-nil patch fields merged in.
func (u User) Apply(p Patch) User {
	if p.Nom != nil {
		u.Nom = *p.Nom
	}
	if p.Tel != nil {
		u.Tel = null.StringFrom(*p.Tel)
	}
	if p.Ville != nil {
		u.Ville = null.StringFrom(*p.Ville)
	}
	if p.VilleOrigine != nil {
		u.VilleOrigine = null.StringFrom(*p.VilleOrigine)
	}
	if p.Naissance != nil {
		u.Naissance = null.StringFrom(*p.Naissance)
	}
	if p.Photo != nil {
		u.Photo = null.StringFrom(*p.Photo)
	}
	return u
}

// NewUser contains information needed to create a new User (admin flow).
type NewUser struct {
	Nom             string `json:"nom" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,role"`
	Tel             string `json:"tel,omitempty" validate:"omitempty,phone"`
	Ville           string `json:"ville,omitempty"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Nom = core.CleanString(nu.Nom)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Nom      string `json:"nom,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Role     string `json:"role,omitempty" validate:"omitempty,role"`
	Tel      string `json:"tel,omitempty" validate:"omitempty,phone"`
	Ville    string `json:"ville,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	uu.Nom = core.CleanString(uu.Nom)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	return validate.Struct(uu)
}

// UpdateProfile is the self-service subset of UpdateUser; role and activation
// are off-limits here.
type UpdateProfile struct {
	Nom          string `json:"nom,omitempty"`
	Tel          string `json:"tel,omitempty" validate:"omitempty,phone"`
	Ville        string `json:"ville,omitempty"`
	VilleOrigine string `json:"villeOrigine,omitempty"`
	Naissance    string `json:"naissance,omitempty"`
	Photo        string `json:"photo,omitempty"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Nom = core.CleanString(up.Nom)
	return validate.Struct(up)
}

type QueryFilter struct {
	Search   string `json:"search,omitempty"`
	Role     string `json:"role,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
