package main

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

func (app *application) printUsage() {
	fmt.Fprintln(app.out, "Usage: portal COMMAND [flags]")
	fmt.Fprintln(app.out)
	fmt.Fprintln(app.out, "Session:")
	fmt.Fprintln(app.out, "  login -email EMAIL                      - log in (password prompted)")
	fmt.Fprintln(app.out, "  register -nom NAME -email EMAIL         - create an account and log in")
	fmt.Fprintln(app.out, "  logout                                  - clear the stored session")
	fmt.Fprintln(app.out, "  whoami                                  - show the current user")
	fmt.Fprintln(app.out, "  profile                                 - show my profile")
	fmt.Fprintln(app.out, "  profile-update [-nom|-tel|-ville|...]   - edit my profile")
	fmt.Fprintln(app.out, "  avatar -file PATH                       - upload a profile photo")
	fmt.Fprintln(app.out)
	fmt.Fprintln(app.out, "Student:")
	fmt.Fprintln(app.out, "  formations [-category C] [-search TERM] - browse the catalog")
	fmt.Fprintln(app.out, "  enroll -formation ID                    - enroll in a formation")
	fmt.Fprintln(app.out, "  unenroll -formation ID                  - leave a formation")
	fmt.Fprintln(app.out, "  courses -formation ID                   - list courses")
	fmt.Fprintln(app.out, "  chapters -course ID                     - list chapters in order")
	fmt.Fprintln(app.out, "  complete -chapter ID                    - mark chapter done")
	fmt.Fprintln(app.out, "  progress -formation ID                  - show my progress")
	fmt.Fprintln(app.out, "  assignments -course ID                  - list assignments")
	fmt.Fprintln(app.out, "  submit -assignment ID [-content|-file]  - hand in a submission")
	fmt.Fprintln(app.out, "  certificates [-course]                  - list my certificates")
	fmt.Fprintln(app.out, "  verify-certificate -code CODE           - verify a certificate code")
	fmt.Fprintln(app.out, "  send-feedback -to ID -rating N [...]    - send feedback")
	fmt.Fprintln(app.out, "  my-feedbacks                            - feedbacks addressed to me")
	fmt.Fprintln(app.out)
	fmt.Fprintln(app.out, "Teacher:")
	fmt.Fprintln(app.out, "  add-formation -title T -category C [...] - publish a formation")
	fmt.Fprintln(app.out, "  update-formation -id ID [...]           - edit a formation")
	fmt.Fprintln(app.out, "  grade -submission ID -points N [...]    - grade a submission")
	fmt.Fprintln(app.out, "  feedback-stats                          - my feedback statistics")
	fmt.Fprintln(app.out)
	fmt.Fprintln(app.out, "Admin:")
	fmt.Fprintln(app.out, "  users [-search TERM] [-role ROLE]       - list users")
	fmt.Fprintln(app.out, "  adduser -nom NAME -email EMAIL -role R  - create a user")
	fmt.Fprintln(app.out, "  toggle-user -id ID                      - toggle a user's active flag")
	fmt.Fprintln(app.out, "  deluser -id ID                          - delete a user")
	fmt.Fprintln(app.out, "  moderate-feedback -id ID -action A      - approve|reject a feedback")
	fmt.Fprintln(app.out, "  invalidate-certificate -id ID           - revoke a certificate")
	fmt.Fprintln(app.out, "  regenerate-certificate -id ID           - reissue a certificate")
}

func (app *application) run(args []string) error {
	if len(args) < 2 {
		app.printUsage()
		return errHelp
	}

	ctx := context.Background()
	flags := args[2:]

	switch args[1] {
	// session
	case "login":
		return app.cmdLogin(ctx, flags)
	case "register":
		return app.cmdRegister(ctx, flags)
	case "logout":
		return app.cmdLogout()
	case "whoami":
		return app.cmdWhoami()
	case "profile":
		return app.cmdProfile(ctx)
	case "profile-update":
		return app.cmdProfileUpdate(ctx, flags)
	case "avatar":
		return app.cmdAvatar(ctx, flags)

	// student
	case "formations":
		return app.cmdFormations(ctx, flags)
	case "enroll":
		return app.cmdEnroll(ctx, flags)
	case "unenroll":
		return app.cmdUnenroll(ctx, flags)
	case "courses":
		return app.cmdCourses(ctx, flags)
	case "chapters":
		return app.cmdChapters(ctx, flags)
	case "complete":
		return app.cmdComplete(ctx, flags)
	case "progress":
		return app.cmdProgress(ctx, flags)
	case "assignments":
		return app.cmdAssignments(ctx, flags)
	case "submit":
		return app.cmdSubmit(ctx, flags)
	case "certificates":
		return app.cmdCertificates(ctx, flags)
	case "verify-certificate":
		return app.cmdVerifyCertificate(ctx, flags)
	case "send-feedback":
		return app.cmdSendFeedback(ctx, flags)
	case "my-feedbacks":
		return app.cmdMyFeedbacks(ctx)

	// teacher
	case "add-formation":
		return app.cmdAddFormation(ctx, flags)
	case "update-formation":
		return app.cmdUpdateFormation(ctx, flags)
	case "grade":
		return app.cmdGrade(ctx, flags)
	case "feedback-stats":
		return app.cmdFeedbackStats(ctx)

	// admin
	case "users":
		return app.cmdUsers(ctx, flags)
	case "adduser":
		return app.cmdAddUser(ctx, flags)
	case "toggle-user":
		return app.cmdToggleUser(ctx, flags)
	case "deluser":
		return app.cmdDelUser(ctx, flags)
	case "moderate-feedback":
		return app.cmdModerateFeedback(ctx, flags)
	case "invalidate-certificate":
		return app.cmdInvalidateCertificate(ctx, flags)
	case "regenerate-certificate":
		return app.cmdRegenerateCertificate(ctx, flags)

	default:
		app.printUsage()
		return errHelp
	}
}

func (app *application) promptPassword(label string) (string, error) {
	fmt.Fprintf(app.out, "%s:", label)
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Fprintln(app.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
