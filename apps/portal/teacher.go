package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/somalms/soma/core/assignment"
	"github.com/somalms/soma/core/formation"
	"github.com/somalms/soma/core/user"
)

func (app *application) cmdAddFormation(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-formation", flag.ExitOnError)
	title := fs.String("title", "", "Title")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "", "Category")
	price := fs.Float64("price", 0, "Price")
	hours := fs.Int("hours", 0, "Duration in hours")
	difficulty := fs.String("difficulty", formation.DifficultyBeginner, "debutant|intermediaire|avance")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := app.requireUser(user.RoleTeacher, user.RoleAdmin); err != nil {
		return err
	}

	nf := formation.NewFormation{
		Title:           *title,
		Description:     *description,
		Category:        *category,
		Price:           *price,
		DurationHours:   *hours,
		DifficultyLevel: *difficulty,
	}
	if err := nf.Validate(app.validate); err != nil {
		return err
	}
	return app.formations.Create(ctx, nf, "formation created")
}

func (app *application) cmdUpdateFormation(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-formation", flag.ExitOnError)
	id := fs.Int("id", 0, "Formation id")
	title := fs.String("title", "", "New title")
	description := fs.String("description", "", "New description")
	category := fs.String("category", "", "New category")
	price := fs.Float64("price", 0, "New price")
	hours := fs.Int("hours", 0, "New duration in hours")
	difficulty := fs.String("difficulty", "", "New difficulty level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(user.RoleTeacher, user.RoleAdmin); err != nil {
		return err
	}

	uf := formation.UpdateFormation{
		Title:           *title,
		Description:     *description,
		Category:        *category,
		DifficultyLevel: *difficulty,
	}
	// zero values mean "leave alone"; only explicitly passed numbers patch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "price":
			uf.Price = price
		case "hours":
			uf.DurationHours = hours
		}
	})
	if err := uf.Validate(app.validate); err != nil {
		return err
	}
	return app.formations.Update(ctx, *id, uf, "formation updated")
}

func (app *application) cmdGrade(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("grade", flag.ExitOnError)
	id := fs.Int("submission", 0, "Submission id")
	points := fs.Float64("points", 0, "Points awarded")
	comment := fs.String("feedback", "", "Grading feedback")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errHelp
	}
	if _, err := app.requireUser(user.RoleTeacher, user.RoleAdmin); err != nil {
		return err
	}

	grade := assignment.NewGrade{Points: *points, Feedback: *comment}
	if err := grade.Validate(app.validate); err != nil {
		return err
	}
	return app.submissions.GradeSubmission(ctx, *id, grade)
}

func (app *application) cmdFeedbackStats(ctx context.Context) error {
	if _, err := app.requireUser(user.RoleTeacher, user.RoleAdmin); err != nil {
		return err
	}

	stats, err := app.studentFeedbacks.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Feedbacks: %d, average rating %.2f\n", stats.Count, stats.AverageRating)
	for rating, count := range stats.ByRating {
		fmt.Fprintf(app.out, "  %s stars: %d\n", rating, count)
	}
	return nil
}
