package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/feedback"
	"github.com/somalms/soma/core/user"
)

func (app *application) cmdFormations(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("formations", flag.ExitOnError)
	category := fs.String("category", "", "Filter by category")
	search := fs.String("search", "", "Free-text search")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := app.formations.Fetch(ctx, nil); err != nil {
		return err
	}

	items := app.formations.Items()
	if *category != "" {
		items = app.formations.ByCategory(*category)
	}
	if *search != "" {
		items = app.formations.Search(*search)
	}
	if len(items) == 0 {
		fmt.Fprintln(app.out, "No formations found.")
		return nil
	}
	for _, f := range items {
		fmt.Fprintf(app.out, "#%d %-40s %-15s %s  %dh  %.2f  (%d enrolled)\n",
			f.ID, f.Title, f.Category, f.DifficultyLevel, f.DurationHours, f.Price, f.TotalEnrolled)
	}
	return nil
}

func (app *application) cmdEnroll(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("enroll", flag.ExitOnError)
	id := fs.Int("formation", 0, "Formation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(user.RoleStudent); err != nil {
		return err
	}
	return app.enrollments.Enroll(ctx, *id)
}

func (app *application) cmdUnenroll(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("unenroll", flag.ExitOnError)
	id := fs.Int("formation", 0, "Formation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(user.RoleStudent); err != nil {
		return err
	}
	if !app.confirm("Unenrolling discards your progress in this formation. Continue?") {
		return nil
	}
	return app.enrollments.Unenroll(ctx, *id)
}

func (app *application) cmdCourses(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("courses", flag.ExitOnError)
	id := fs.Int("formation", 0, "Formation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}

	if err := app.formations.Fetch(ctx, nil); err != nil {
		return err
	}
	if f, ok := app.formations.Get(*id); ok {
		fmt.Fprintf(app.out, "%s (%s, %dh)\n", f.Title, f.DifficultyLevel, f.DurationHours)
	}
	if err := app.courses.FetchForFormation(ctx, *id); err != nil {
		return err
	}
	for _, c := range app.courses.Items() {
		fmt.Fprintf(app.out, "#%d %s\n", c.ID, c.Title)
	}
	return nil
}

func (app *application) cmdChapters(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chapters", flag.ExitOnError)
	id := fs.Int("course", 0, "Course id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}

	if err := app.chapters.FetchForCourse(ctx, *id); err != nil {
		return err
	}
	for _, ch := range app.chapters.Ordered() {
		mark := " "
		if app.progress.IsChapterComplete(ch.ID) {
			mark = "x"
		}
		attach := ""
		if ch.HasAttachment() {
			attach = " [attachment]"
		}
		fmt.Fprintf(app.out, "[%s] #%d %s%s\n", mark, ch.ID, ch.Title, attach)
	}
	return nil
}

func (app *application) cmdComplete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("complete", flag.ExitOnError)
	id := fs.Int("chapter", 0, "Chapter id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(user.RoleStudent); err != nil {
		return err
	}
	return app.progress.MarkComplete(ctx, *id)
}

func (app *application) cmdProgress(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("progress", flag.ExitOnError)
	id := fs.Int("formation", 0, "Formation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(user.RoleStudent); err != nil {
		return err
	}

	if err := app.enrollments.Fetch(ctx, nil); err != nil {
		return err
	}
	enr, ok := app.enrollments.For(*id)
	if !ok {
		fmt.Fprintln(app.out, "You are not enrolled in this formation.")
		return nil
	}
	if err := app.progress.FetchForFormation(ctx, *id); err != nil {
		return err
	}

	fmt.Fprintf(app.out, "Progress: %.0f%%\n", enr.ProgressPercentage)
	if enr.IsCompleted() {
		fmt.Fprintf(app.out, "Completed at: %s\n", enr.CompletedAt.Time.Format("2006-01-02"))
	}
	if last, ok := app.progress.LastActivity(); ok {
		fmt.Fprintf(app.out, "Last activity: %s\n", last.Format("2006-01-02"))
	}
	return nil
}

func (app *application) cmdAssignments(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("assignments", flag.ExitOnError)
	id := fs.Int("course", 0, "Course id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	usr, err := app.requireUser()
	if err != nil {
		return err
	}

	if err := app.assignments.FetchForCourse(ctx, *id); err != nil {
		return err
	}
	for _, a := range app.assignments.Items() {
		status := ""
		if app.submissions.HasSubmitted(a.ID, usr.ID) {
			status = " (submitted)"
			if g, ok := app.submissions.GradeFor(a.ID, usr.ID); ok {
				status = fmt.Sprintf(" (graded: %.1f/%.1f)", g.Points, a.MaxPoints)
			}
		}
		due := ""
		if a.DueDate.Valid {
			due = " due " + a.DueDate.Time.Format("2006-01-02")
		}
		fmt.Fprintf(app.out, "#%d %s%s%s\n", a.ID, a.Title, due, status)
	}
	return nil
}

func (app *application) cmdSubmit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	id := fs.Int("assignment", 0, "Assignment id")
	content := fs.String("content", "", "Submission text")
	path := fs.String("file", "", "File to attach (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 || (*content == "" && *path == "") {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(user.RoleStudent); err != nil {
		return err
	}

	var file *core.UploadFile
	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			return err
		}
		defer f.Close()
		file = &core.UploadFile{Field: "file", FileName: filepath.Base(*path), Reader: f}
	}
	return app.submissions.Submit(ctx, *id, *content, file, func(sent, total int64) {
		fmt.Fprintf(app.out, "\ruploading... %d/%d bytes", sent, total)
		if sent == total {
			fmt.Fprintln(app.out)
		}
	})
}

func (app *application) cmdCertificates(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("certificates", flag.ExitOnError)
	courseOnly := fs.Bool("course", false, "Only course-level certificates")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := app.requireUser(); err != nil {
		return err
	}
	fetch := app.certificates.FetchMine
	if *courseOnly {
		fetch = app.certificates.FetchMyCourseCertificates
	}
	if err := fetch(ctx); err != nil {
		return err
	}
	certs := app.certificates.Items()
	if len(certs) == 0 {
		fmt.Fprintln(app.out, "No certificates yet.")
		return nil
	}
	for _, c := range certs {
		state := "valid"
		if !c.IsValid() {
			state = "invalidated"
		}
		fmt.Fprintf(app.out, "#%d code=%s issued=%s [%s]\n",
			c.ID, c.VerificationCode, c.IssuedAt.Format("2006-01-02"), state)
	}
	return nil
}

func (app *application) cmdVerifyCertificate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify-certificate", flag.ExitOnError)
	code := fs.String("code", "", "Verification code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *code == "" {
		fs.Usage()
		return errHelp
	}

	cert, err := app.certificates.Verify(ctx, *code)
	if err != nil {
		if core.IsNotFound(err) {
			fmt.Fprintln(app.out, "Unknown certificate code.")
			return nil
		}
		return err
	}
	if cert.IsValid() {
		fmt.Fprintf(app.out, "Certificate #%d is valid (issued %s).\n", cert.ID, cert.IssuedAt.Format("2006-01-02"))
	} else {
		fmt.Fprintf(app.out, "Certificate #%d has been invalidated.\n", cert.ID)
	}
	return nil
}

func (app *application) cmdSendFeedback(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("send-feedback", flag.ExitOnError)
	to := fs.Int("to", 0, "Recipient user id")
	rating := fs.Int("rating", 0, "Rating 1-5")
	comment := fs.String("comment", "", "Free-text comment")
	visible := fs.Bool("visible", false, "Make the feedback publicly visible")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *to == 0 || *rating == 0 {
		fs.Usage()
		return errHelp
	}
	usr, err := app.requireUser(user.RoleStudent, user.RoleTeacher)
	if err != nil {
		return err
	}

	nf := feedback.NewFeedback{RecipientID: *to, Rating: *rating, Comment: *comment, Visible: *visible}
	if err := nf.Validate(app.validate); err != nil {
		return err
	}

	// direction follows the sender's role
	if usr.IsTeacher() {
		return app.teacherFeedbacks.Send(ctx, nf)
	}
	return app.studentFeedbacks.Send(ctx, nf)
}

func (app *application) cmdMyFeedbacks(ctx context.Context) error {
	usr, err := app.requireUser(user.RoleStudent, user.RoleTeacher)
	if err != nil {
		return err
	}

	// students receive teacher feedbacks; teachers receive (approved) student ones
	var items []feedback.Feedback
	if usr.IsStudent() {
		if err := app.teacherFeedbacks.FetchMine(ctx); err != nil {
			return err
		}
		items = app.teacherFeedbacks.Items()
	} else {
		if err := app.studentFeedbacks.Fetch(ctx, nil); err != nil {
			return err
		}
		items = app.studentFeedbacks.Items()
	}

	if len(items) == 0 {
		fmt.Fprintln(app.out, "No feedbacks yet.")
		return nil
	}
	for _, f := range items {
		fmt.Fprintf(app.out, "#%d %d/5 [%s] %s\n", f.ID, f.Rating, f.Status, f.Comment)
	}
	return nil
}
