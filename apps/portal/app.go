package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/assignment"
	"github.com/somalms/soma/core/certificate"
	"github.com/somalms/soma/core/course"
	"github.com/somalms/soma/core/feedback"
	"github.com/somalms/soma/core/formation"
	"github.com/somalms/soma/core/profile"
	"github.com/somalms/soma/core/progress"
	"github.com/somalms/soma/core/pubsub"
	"github.com/somalms/soma/core/resource"
	"github.com/somalms/soma/core/session"
	"github.com/somalms/soma/core/user"
	notifysvc "github.com/somalms/soma/services/notify"
	"github.com/somalms/soma/services/rest"
)

// application wires the whole SDK for the CLI: session, transport, stores.
type application struct {
	conf       *core.Config
	logger     core.Logger
	notifier   core.Notifier
	validate   *validator.Validate
	translator ut.Translator

	bus     *pubsub.Bus
	store   *session.Store
	cache   *resource.Cache
	client  *rest.Client
	manager *session.Manager

	users            *user.Store
	profile          *profile.Service
	formations       *formation.Store
	enrollments      *formation.EnrollmentStore
	courses          *course.Store
	chapters         *course.ChapterStore
	assignments      *assignment.Store
	submissions      *assignment.SubmissionStore
	studentFeedbacks *feedback.StudentStore
	teacherFeedbacks *feedback.TeacherStore
	certificates     *certificate.Store
	progress         *progress.Store

	in  io.Reader
	out io.Writer
}

func newApplication(conf *core.Config, logger core.Logger) *application {
	app := &application{
		conf:     conf,
		logger:   logger,
		notifier: notifysvc.NewConsoleNotifier(conf),
		bus:      pubsub.NewBus(),
		store:    session.NewStore(conf.SessionFile, logger),
		cache:    resource.NewCache(),
		in:       os.Stdin,
		out:      os.Stdout,
	}
	app.validate, app.translator = core.NewValidator()

	app.client = rest.NewClient(conf.Client, app.store, logger, func() {
		// the backend rejected our token: drop every cached query with it
		app.cache.Flush()
		if app.manager != nil {
			app.manager.Invalidate()
		}
	})
	app.manager = session.NewManager(app.store, rest.NewAuthAPI(app.client), app.bus, logger)

	deps := resource.Deps{
		Client:   app.client,
		Auth:     app.store,
		Cache:    app.cache,
		Notifier: app.notifier,
	}
	app.users = user.NewStore(deps)
	app.profile = profile.NewService(app.client, app.manager, app.notifier)
	app.formations = formation.NewStore(deps)
	app.enrollments = formation.NewEnrollmentStore(deps)
	app.courses = course.NewStore(deps)
	app.chapters = course.NewChapterStore(deps)
	app.assignments = assignment.NewStore(deps)
	app.submissions = assignment.NewSubmissionStore(deps)
	app.studentFeedbacks = feedback.NewStudentStore(deps)
	app.teacherFeedbacks = feedback.NewTeacherStore(deps)
	app.certificates = certificate.NewStore(deps)
	app.progress = progress.NewStore(deps)

	return app
}

// requireUser is the route-guard analog: commands declare the roles allowed
// to run them.
func (app *application) requireUser(roles ...string) (user.User, error) {
	usr := app.manager.CurrentUser()
	if usr == nil {
		return user.User{}, errors.New("please log in first (portal login)")
	}
	if len(roles) > 0 && !usr.HasRole(roles...) {
		return user.User{}, errors.New("you do not have permission to do this")
	}
	return *usr, nil
}

// confirm is the confirmation-modal analog guarding destructive actions.
func (app *application) confirm(prompt string) bool {
	fmt.Fprintf(app.out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(app.in).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
