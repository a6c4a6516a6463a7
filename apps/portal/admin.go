package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/somalms/soma/core/user"
)

func (app *application) cmdUsers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users", flag.ExitOnError)
	search := fs.String("search", "", "Match on name or email")
	role := fs.String("role", "", "Filter by role")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := app.requireUser(user.RoleAdmin, user.RoleSuperAdmin); err != nil {
		return err
	}

	if err := app.users.Fetch(ctx, nil); err != nil {
		return err
	}
	for _, u := range app.users.Filter(user.QueryFilter{Search: *search, Role: *role}) {
		state := "active"
		if !u.IsActive {
			state = "inactive"
		}
		fmt.Fprintf(app.out, "#%d %-30s %-30s %-12s [%s]\n", u.ID, u.Nom, u.Email, u.Role, state)
	}
	return nil
}

func (app *application) cmdAddUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("adduser", flag.ExitOnError)
	nom := fs.String("nom", "", "Full name")
	email := fs.String("email", "", "Email")
	role := fs.String("role", user.RoleStudent, "Role")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *nom == "" || *email == "" {
		fs.Usage()
		return errHelp
	}
	ctxUsr, err := app.requireUser(user.RoleAdmin, user.RoleSuperAdmin)
	if err != nil {
		return err
	}
	// only a super admin may mint admins
	if (*role == user.RoleAdmin || *role == user.RoleSuperAdmin) && !ctxUsr.IsSuperAdminUser() {
		return errors.New("not enough rights to set this role")
	}

	pwd, err := app.promptPassword("Enter password")
	if err != nil {
		return err
	}
	confirm, err := app.promptPassword("Confirm password")
	if err != nil {
		return err
	}

	nu := user.NewUser{
		Nom:             *nom,
		Email:           *email,
		Password:        pwd,
		PasswordConfirm: confirm,
		Role:            *role,
	}
	if err := nu.Validate(app.validate); err != nil {
		return err
	}
	return app.users.Create(ctx, nu, "user created")
}

func (app *application) cmdToggleUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("toggle-user", flag.ExitOnError)
	id := fs.Int("id", 0, "User id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(user.RoleAdmin, user.RoleSuperAdmin); err != nil {
		return err
	}
	return app.users.ToggleActive(ctx, *id)
}

func (app *application) cmdDelUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("deluser", flag.ExitOnError)
	id := fs.Int("id", 0, "User id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	ctxUsr, err := app.requireUser(user.RoleAdmin, user.RoleSuperAdmin)
	if err != nil {
		return err
	}
	// Say No to Suicide! admins cannot delete themselves
	if ctxUsr.ID == *id {
		return errors.New("you cannot delete your own account")
	}
	if !app.confirm(fmt.Sprintf("Delete user #%d?", *id)) {
		return nil
	}
	return app.users.Delete(ctx, *id, "user deleted")
}

func (app *application) cmdModerateFeedback(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("moderate-feedback", flag.ExitOnError)
	id := fs.Int("id", 0, "Feedback id")
	action := fs.String("action", "", "approve or reject")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(user.RoleAdmin, user.RoleSuperAdmin); err != nil {
		return err
	}

	switch *action {
	case "approve":
		return app.studentFeedbacks.Approve(ctx, *id)
	case "reject":
		return app.studentFeedbacks.Reject(ctx, *id)
	default:
		fs.Usage()
		return errHelp
	}
}

func (app *application) cmdInvalidateCertificate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("invalidate-certificate", flag.ExitOnError)
	id := fs.Int("id", 0, "Certificate id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(user.RoleAdmin, user.RoleSuperAdmin); err != nil {
		return err
	}
	if !app.confirm(fmt.Sprintf("Invalidate certificate #%d?", *id)) {
		return nil
	}
	return app.certificates.Invalidate(ctx, *id)
}

func (app *application) cmdRegenerateCertificate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("regenerate-certificate", flag.ExitOnError)
	id := fs.Int("id", 0, "Certificate id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(user.RoleAdmin, user.RoleSuperAdmin); err != nil {
		return err
	}
	return app.certificates.Regenerate(ctx, *id)
}
