// Package term is the terminal presentation shell: a line-based command
// loop over the session store and the view controllers. No business
// logic lives here.
package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/crashdash/crashdash/internal/backend"
	"github.com/crashdash/crashdash/internal/clipboard"
	"github.com/crashdash/crashdash/internal/domain/project"
	"github.com/crashdash/crashdash/internal/session"
	"github.com/crashdash/crashdash/internal/view"
)

// Shell drives the dashboard from a terminal.
type Shell struct {
	client  backend.Backend
	baseURL string
	clip    clipboard.Writer
	logger  *slog.Logger
	in      io.Reader
	out     io.Writer

	sess       *session.Store
	collection *view.CollectionView
	detail     *view.DetailView
}

// Config defines shell construction inputs.
type Config struct {
	Client    backend.Backend
	BaseURL   string
	Clipboard clipboard.Writer
	Logger    *slog.Logger
	In        io.Reader
	Out       io.Writer
}

// NewShell creates a shell. Bind the session store before Run.
func NewShell(cfg Config) *Shell {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Shell{
		client:  cfg.Client,
		baseURL: cfg.BaseURL,
		clip:    cfg.Clipboard,
		logger:  logger,
		in:      cfg.In,
		out:     cfg.Out,
	}
}

// Bind attaches the session store. Done after construction because the
// shell is also the store's Navigator.
func (sh *Shell) Bind(sess *session.Store) {
	sh.sess = sess
}

// NavigateToLogin implements session.Navigator.
func (sh *Shell) NavigateToLogin() {
	sh.closeViews()
	fmt.Fprintln(sh.out, "Please log in: login <identifier> <password>")
}

// Run initializes the session and processes commands until EOF or quit.
func (sh *Shell) Run(ctx context.Context) error {
	sh.sess.Initialize(ctx)
	if u := sh.sess.User(); u != nil {
		fmt.Fprintf(sh.out, "Logged in as %s\n", u.Identifier)
	} else {
		fmt.Fprintln(sh.out, "Not logged in. Use: login <identifier> <password>")
	}

	scanner := bufio.NewScanner(sh.in)
	fmt.Fprint(sh.out, "> ")
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			break
		}
		if line != "" {
			sh.dispatch(ctx, line)
		}
		fmt.Fprint(sh.out, "> ")
	}
	sh.closeViews()
	return scanner.Err()
}

func (sh *Shell) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		sh.printHelp()
	case "login":
		sh.cmdLogin(ctx, args)
	case "signup":
		sh.cmdSignup(ctx, args)
	case "logout":
		sh.sess.Logout()
	case "list":
		sh.cmdList(ctx)
	case "create":
		sh.cmdCreate(ctx, args)
	case "show":
		sh.cmdShow(ctx, args)
	case "edit":
		sh.cmdEdit(args)
	case "save":
		sh.cmdSave()
	case "cancel":
		sh.withDetail(func(d *view.DetailView) { d.CancelEdit() })
	case "delete":
		sh.withDetail(func(d *view.DetailView) {
			d.RequestDelete()
			fmt.Fprintln(sh.out, "This action cannot be undone. Type 'confirm' to delete or 'abort' to keep.")
		})
	case "confirm":
		sh.cmdConfirmDelete()
	case "abort":
		sh.withDetail(func(d *view.DetailView) { d.CancelDelete() })
	case "regen":
		sh.cmdRegenerate()
	case "test":
		sh.cmdTestAlert()
	case "copy":
		sh.cmdCopy(args)
	default:
		fmt.Fprintf(sh.out, "Unknown command %q. Try 'help'.\n", cmd)
	}
}

func (sh *Shell) printHelp() {
	fmt.Fprint(sh.out, `Commands:
  login <identifier> <password>   authenticate
  signup <name> <identifier> <password>
  logout
  list                            show your projects
  create <name> <email> <limit>   create a project
  show <id>                       open a project
  edit <name|email|limit> <value> edit the open project
  save | cancel                   save or discard edits
  delete                          open delete confirmation
  confirm | abort                 resolve the confirmation
  regen                           regenerate the API key
  test                            send a test alert
  copy <key|cmd>                  copy key or curl command
  quit
`)
}

func (sh *Shell) cmdLogin(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(sh.out, "usage: login <identifier> <password>")
		return
	}
	if err := sh.sess.Login(ctx, args[0], args[1]); err != nil {
		fmt.Fprintf(sh.out, "Login failed: %s\n", err)
		return
	}
	fmt.Fprintf(sh.out, "Logged in as %s\n", sh.sess.User().Identifier)
}

func (sh *Shell) cmdSignup(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Fprintln(sh.out, "usage: signup <name> <identifier> <password>")
		return
	}
	if _, err := sh.sess.Signup(ctx, args[0], args[1], args[2]); err != nil {
		fmt.Fprintf(sh.out, "Signup failed: %s\n", err)
		return
	}
	fmt.Fprintln(sh.out, "Account created. Log in with: login <identifier> <password>")
}

func (sh *Shell) cmdList(ctx context.Context) {
	if sh.collection == nil {
		sh.collection = view.NewCollectionView(sh.client, sh.sess, sh, sh.logger)
		sh.collection.Mount(ctx)
	} else {
		sh.collection.Refresh()
	}
	if sh.sess.User() == nil {
		return
	}

	projects := sh.collection.Projects()
	if len(projects) == 0 {
		fmt.Fprintln(sh.out, "No projects yet. Create your first project to start monitoring your website.")
		return
	}
	for i := range projects {
		sh.printProjectRow(&projects[i])
	}
}

func (sh *Shell) printProjectRow(proj *project.Project) {
	marker := ""
	if proj.LimitExceeded() {
		marker = "  ! limit exceeded"
	}
	fmt.Fprintf(sh.out, "%s  %s  %d/%d  %s  created %s%s\n",
		proj.ID, proj.Name, proj.Count, proj.Limit, proj.Email,
		humanize.Time(proj.CreatedAt), marker)
}

func (sh *Shell) cmdCreate(ctx context.Context, args []string) {
	if sh.collection == nil {
		sh.cmdList(ctx)
	}
	if len(args) != 3 {
		fmt.Fprintln(sh.out, "usage: create <name> <email> <limit>")
		return
	}
	limit, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintln(sh.out, "Alert limit must be a positive integer.")
		return
	}

	proj, err := sh.collection.CreateProject(project.CreateRequest{
		Name:  args[0],
		Email: args[1],
		Limit: limit,
	})
	if err != nil {
		fmt.Fprintf(sh.out, "Failed to create project: %s\n", err)
		return
	}
	fmt.Fprintf(sh.out, "Created %s (%s)\n", proj.Name, proj.ID)
}

func (sh *Shell) cmdShow(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "usage: show <id>")
		return
	}
	if sh.detail != nil {
		sh.detail.Unmount()
	}
	sh.detail = view.NewDetailView(view.DetailConfig{
		Backend:   sh.client,
		Clipboard: sh.clip,
		Logger:    sh.logger,
		OnDeleted: func() {
			fmt.Fprintln(sh.out, "Project deleted.")
		},
	})
	sh.detail.Mount(ctx, args[0])
	if sh.detail.NotFound() {
		fmt.Fprintln(sh.out, "Project not found.")
		sh.detail = nil
		return
	}
	sh.printDetail()
}

func (sh *Shell) printDetail() {
	proj := sh.detail.Project()
	sh.printProjectRow(proj)
	fmt.Fprintf(sh.out, "  key: %s\n", proj.Key)
	fmt.Fprintf(sh.out, "  report: %s\n", proj.SampleCommand(sh.baseURL))
}

func (sh *Shell) cmdEdit(args []string) {
	sh.withDetail(func(d *view.DetailView) {
		if len(args) != 2 {
			fmt.Fprintln(sh.out, "usage: edit <name|email|limit> <value>")
			return
		}
		if !d.Editing() {
			d.BeginEdit()
		}
		switch args[0] {
		case "name":
			d.SetDraftName(args[1])
		case "email":
			d.SetDraftEmail(args[1])
		case "limit":
			d.SetDraftLimit(args[1])
		default:
			fmt.Fprintln(sh.out, "usage: edit <name|email|limit> <value>")
		}
	})
}

func (sh *Shell) cmdSave() {
	sh.withDetail(func(d *view.DetailView) {
		if !d.Changed() {
			fmt.Fprintln(sh.out, "Nothing to save.")
			return
		}
		if err := d.Save(); err != nil {
			fmt.Fprintf(sh.out, "%s\n", d.InlineError())
			return
		}
		fmt.Fprintln(sh.out, "Saved.")
		sh.printDetail()
	})
}

func (sh *Shell) cmdConfirmDelete() {
	sh.withDetail(func(d *view.DetailView) {
		if err := d.ConfirmDelete(); err != nil {
			if err == view.ErrNoDeletePending {
				fmt.Fprintln(sh.out, "No delete pending. Use 'delete' first.")
				return
			}
			fmt.Fprintf(sh.out, "%s\n", d.InlineError())
			return
		}
		sh.detail = nil
	})
}

func (sh *Shell) cmdRegenerate() {
	sh.withDetail(func(d *view.DetailView) {
		if err := d.RegenerateKey(); err != nil {
			fmt.Fprintf(sh.out, "%s\n", d.InlineError())
			return
		}
		fmt.Fprintln(sh.out, "Key regenerated. The old key is now invalid.")
		sh.printDetail()
	})
}

func (sh *Shell) cmdTestAlert() {
	sh.withDetail(func(d *view.DetailView) {
		_ = d.SendTestAlert()
		if notice, _ := d.TakeNotice(); notice != "" {
			fmt.Fprintln(sh.out, notice)
		}
	})
}

func (sh *Shell) cmdCopy(args []string) {
	sh.withDetail(func(d *view.DetailView) {
		if len(args) != 1 {
			fmt.Fprintln(sh.out, "usage: copy <key|cmd>")
			return
		}
		var err error
		switch args[0] {
		case "key":
			err = d.CopyKey()
		case "cmd":
			err = d.CopyCommand(sh.baseURL)
		default:
			fmt.Fprintln(sh.out, "usage: copy <key|cmd>")
			return
		}
		if err != nil {
			fmt.Fprintf(sh.out, "Copy failed: %s\n", err)
			return
		}
		fmt.Fprintln(sh.out, "Copied!")
	})
}

func (sh *Shell) withDetail(fn func(*view.DetailView)) {
	if sh.detail == nil {
		fmt.Fprintln(sh.out, "No project open. Use: show <id>")
		return
	}
	fn(sh.detail)
}

func (sh *Shell) closeViews() {
	if sh.collection != nil {
		sh.collection.Unmount()
		sh.collection = nil
	}
	if sh.detail != nil {
		sh.detail.Unmount()
		sh.detail = nil
	}
}
