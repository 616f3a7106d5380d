package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/mlobankov/resume-pilot/internal/adapters/navguard"
	"github.com/mlobankov/resume-pilot/internal/bootstrap"
	"github.com/mlobankov/resume-pilot/internal/config"
	"github.com/mlobankov/resume-pilot/internal/core/domain"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(ctx, app, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: resumecli <command> [flags]

commands:
  register   create an account and sign in
  login      sign in
  logout     sign out
  whoami     show the current session
  list       list résumés
  upload     upload a résumé file
  analyze    run the full pipeline: upload, parse, analyze, suggestions
  delete     delete a résumé
  health     check AI service health`)
}

func run(ctx context.Context, app *bootstrap.App, command string, args []string) error {
	switch command {
	case "register":
		return runRegister(ctx, app, args)
	case "login":
		return runLogin(ctx, app, args)
	case "logout":
		app.Session.Logout(ctx)
		fmt.Println("signed out")
		return nil
	case "whoami":
		return runWhoami(ctx, app)
	case "list":
		return runList(ctx, app, args)
	case "upload":
		return runUpload(ctx, app, args)
	case "analyze":
		return runAnalyze(ctx, app, args)
	case "delete":
		return runDelete(ctx, app, args)
	case "health":
		return runHealth(ctx, app)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireSession routes through the navigation guard the way the UI
// would before entering a protected view.
func requireSession(ctx context.Context, app *bootstrap.App, route navguard.Route) error {
	decision := app.Guard.Decide(ctx, route)
	if !decision.Allowed {
		return fmt.Errorf("not signed in (run: resumecli login)")
	}
	return nil
}

func runRegister(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	confirm := fs.String("confirm", "", "password confirmation")
	nickname := fs.String("nickname", "", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	grant, err := app.Session.Register(ctx, domain.Registration{
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *confirm,
		Nickname:        *nickname,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered and signed in as %s\n", grant.User.Email)
	return nil
}

func runLogin(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	grant, err := app.Session.Login(ctx, domain.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s\n", grant.User.Email)
	return nil
}

func runWhoami(ctx context.Context, app *bootstrap.App) error {
	app.Session.CheckAuth(ctx)
	user := app.Session.CurrentUser()
	if user == nil {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.Nickname, user.Email)
	return nil
}

func runList(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", app.Config.DefaultPageSize, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireSession(ctx, app, navguard.RouteResume); err != nil {
		return err
	}

	result, err := app.Library.FetchResumes(ctx, *page, *pageSize)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tSCORE\tUPLOADED")
	for _, r := range result.Items {
		score := "-"
		if r.Score != nil {
			score = fmt.Sprintf("%.1f", *r.Score)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Status, score, r.UploadTime)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("page %d/%d (%d total)\n", result.Page, (result.Total+result.PageSize-1)/max(result.PageSize, 1), result.Total)
	return nil
}

func runUpload(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	file := fs.String("file", "", "résumé file (pdf/doc/docx/md/txt)")
	position := fs.String("position", "", "target position")
	industry := fs.String("industry", "", "target industry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireSession(ctx, app, navguard.RouteResume); err != nil {
		return err
	}

	resume, err := uploadFile(ctx, app, *file, *position, *industry)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded résumé %d (%s), status %s\n", resume.ID, resume.Name, resume.Status)
	return nil
}

func uploadFile(ctx context.Context, app *bootstrap.App, path, position, industry string) (*domain.Resume, error) {
	if path == "" {
		return nil, fmt.Errorf("-file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	resume, err := app.Library.UploadResume(ctx, domain.UploadRequest{
		Filename:       filepath.Base(path),
		Data:           data,
		TargetPosition: position,
		Industry:       industry,
	}, func(pct int) {
		fmt.Fprintf(os.Stderr, "\ruploading... %3d%%", pct)
	})
	fmt.Fprintln(os.Stderr)
	return resume, err
}

func runAnalyze(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	file := fs.String("file", "", "résumé file to upload first (otherwise use -id)")
	id := fs.Int64("id", 0, "existing résumé id")
	position := fs.String("position", "", "target position")
	industry := fs.String("industry", "", "target industry")
	withSuggestions := fs.Bool("suggestions", true, "fetch AI suggestions after analysis")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireSession(ctx, app, navguard.RouteResume); err != nil {
		return err
	}

	resumeID := *id
	if *file != "" {
		resume, err := uploadFile(ctx, app, *file, *position, *industry)
		if err != nil {
			return err
		}
		resumeID = resume.ID

		taskID, err := app.Library.ParseResume(ctx, resumeID)
		if err != nil {
			return err
		}
		app.Logger.Info("parse_accepted", "resume_id", resumeID, "task_id", taskID)

		parsed, err := app.Poller.AwaitParse(ctx, app.Library, resumeID)
		if err != nil {
			return fmt.Errorf("await parse: %w", err)
		}
		if parsed.Status == domain.StatusFailed {
			return fmt.Errorf("parsing failed for résumé %d", resumeID)
		}
	}
	if resumeID == 0 {
		return fmt.Errorf("either -file or -id is required")
	}

	analysisID, err := app.Library.AnalyzeResume(ctx, resumeID, *position, *industry)
	if err != nil {
		return err
	}
	app.Logger.Info("analysis_accepted", "resume_id", resumeID, "analysis_id", analysisID)

	result, err := app.Poller.AwaitAnalysis(ctx, app.Library, analysisID)
	if err != nil {
		return fmt.Errorf("await analysis: %w", err)
	}
	printAnalysis(result)

	if *withSuggestions {
		set, err := app.AI.GenerateSuggestions(ctx, domain.SuggestionRequest{
			AnalysisID:     analysisID,
			TargetPosition: *position,
			Industry:       *industry,
		})
		if err != nil {
			return err
		}
		printSuggestions(set.Suggestions)
	}
	return nil
}

func printAnalysis(result *domain.AnalysisResult) {
	fmt.Printf("analysis %s: %s\n", result.ID, result.Status)
	fmt.Printf("  overall %.1f (completeness %.1f, clarity %.1f, keywords %.1f, format %.1f, quantification %.1f)\n",
		result.Scores.OverallScore,
		result.Scores.CompletenessScore,
		result.Scores.ClarityScore,
		result.Scores.KeywordScore,
		result.Scores.FormatScore,
		result.Scores.QuantificationScore,
	)
	if result.Summary != "" {
		fmt.Printf("  %s\n", result.Summary)
	}
}

func printSuggestions(suggestions []domain.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Println("suggestions:")
	for _, s := range suggestions {
		fmt.Printf("  [%s] %s: %s\n", strings.ToUpper(s.Priority), s.Title, s.Description)
	}
}

func runDelete(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.Int64("id", 0, "résumé id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("-id is required")
	}
	if err := requireSession(ctx, app, navguard.RouteResume); err != nil {
		return err
	}

	if err := app.Library.DeleteResume(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("deleted résumé %d\n", *id)
	return nil
}

func runHealth(ctx context.Context, app *bootstrap.App) error {
	health, err := app.AI.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("ai service: %s (version %s)\n", health.Status, health.Version)
	for name, status := range health.Components {
		fmt.Printf("  %s: %s\n", name, status)
	}
	return nil
}
