package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/session"
	"github.com/somalms/soma/core/user"
)

// landingFor is the role-gated post-login destination, mirroring the portal's
// route groups.
func landingFor(usr user.User) string {
	switch {
	case usr.IsAdmin():
		return "/admin"
	case usr.IsTeacher():
		return "/teacher"
	default:
		return "/student"
	}
}

func (app *application) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "The account email. The password will be prompted next.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fs.Usage()
		return errHelp
	}

	pwd, err := app.promptPassword("Enter password")
	if err != nil {
		return err
	}

	creds := session.Credentials{Email: *email, Password: pwd}
	if err := creds.Validate(app.validate); err != nil {
		return err
	}

	// branch on the returned auth, not on manager state
	auth, err := app.manager.Login(ctx, creds)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Welcome %s! -> %s\n", auth.User.Nom, landingFor(auth.User))
	return nil
}

func (app *application) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	nom := fs.String("nom", "", "Full name")
	email := fs.String("email", "", "Account email")
	tel := fs.String("tel", "", "Phone number (optional)")
	ville := fs.String("ville", "", "City (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *nom == "" || *email == "" {
		fs.Usage()
		return errHelp
	}

	pwd, err := app.promptPassword("Enter password")
	if err != nil {
		return err
	}
	confirm, err := app.promptPassword("Confirm password")
	if err != nil {
		return err
	}

	acct := session.NewAccount{
		Nom:             *nom,
		Email:           *email,
		Password:        pwd,
		PasswordConfirm: confirm,
		Tel:             *tel,
		Ville:           *ville,
	}
	if err := acct.Validate(app.validate); err != nil {
		return err
	}

	auth, err := app.manager.Register(ctx, acct)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Account created. Welcome %s! -> %s\n", auth.User.Nom, landingFor(auth.User))
	return nil
}

func (app *application) cmdLogout() error {
	app.manager.Logout()
	app.cache.Flush()
	fmt.Fprintln(app.out, "Logged out.")
	return nil
}

func (app *application) cmdWhoami() error {
	usr, err := app.requireUser()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "#%d %s <%s> role=%s photo=%s\n", usr.ID, usr.Nom, usr.Email, usr.Role, usr.PhotoURL())
	return nil
}

func (app *application) cmdProfile(ctx context.Context) error {
	if _, err := app.requireUser(); err != nil {
		return err
	}
	usr, err := app.profile.Fetch(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Nom:          %s\n", usr.Nom)
	fmt.Fprintf(app.out, "Email:        %s\n", usr.Email)
	fmt.Fprintf(app.out, "Tel:          %s\n", usr.Tel.String)
	fmt.Fprintf(app.out, "Ville:        %s\n", usr.Ville.String)
	fmt.Fprintf(app.out, "VilleOrigine: %s\n", usr.VilleOrigine.String)
	fmt.Fprintf(app.out, "Naissance:    %s\n", usr.Naissance.String)
	fmt.Fprintf(app.out, "Photo:        %s\n", usr.PhotoURL())
	return nil
}

func (app *application) cmdProfileUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile-update", flag.ExitOnError)
	nom := fs.String("nom", "", "Full name")
	tel := fs.String("tel", "", "Phone number")
	ville := fs.String("ville", "", "City")
	villeOrigine := fs.String("ville-origine", "", "City of origin")
	naissance := fs.String("naissance", "", "Birth date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := app.requireUser(); err != nil {
		return err
	}

	up := user.UpdateProfile{
		Nom:          *nom,
		Tel:          *tel,
		Ville:        *ville,
		VilleOrigine: *villeOrigine,
		Naissance:    *naissance,
	}
	if err := up.Validate(app.validate); err != nil {
		return err
	}
	_, err := app.profile.Update(ctx, up)
	return err
}

func (app *application) cmdAvatar(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("avatar", flag.ExitOnError)
	path := fs.String("file", "", "Image file to upload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(); err != nil {
		return err
	}

	f, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer f.Close()

	file := core.UploadFile{Field: "photo", FileName: filepath.Base(*path), Reader: f}
	return app.profile.UploadAvatar(ctx, file, func(sent, total int64) {
		fmt.Fprintf(app.out, "\ruploading... %d/%d bytes", sent, total)
		if sent == total {
			fmt.Fprintln(app.out)
		}
	})
}
