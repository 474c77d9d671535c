package notes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/julianstephens/chime/internal/cli"
	apperrors "github.com/julianstephens/chime/internal/errors"
	"github.com/julianstephens/chime/internal/models"
	notebook "github.com/julianstephens/chime/internal/notes"
	"github.com/julianstephens/chime/internal/utils"
)

type NoteAddCmd struct {
	Title string `arg:"" help:"Note title."`
	Body  string `arg:"" optional:"" help:"Note body (markdown)."`
}

func (c *NoteAddCmd) Run(ctx *cli.Context) error {
	n, err := ctx.Session.SaveNote(c.Title, c.Body)
	if err != nil {
		if errors.Is(err, notebook.ErrEmptyNote) {
			return apperrors.Usage(err)
		}
		return fmt.Errorf("failed to save note: %w", err)
	}
	ctx.Printf("✓ Note saved: %s (%s)\n", n.Heading(), n.ID)
	return nil
}

type NoteListCmd struct{}

func (c *NoteListCmd) Run(ctx *cli.Context) error {
	printNotes(ctx, ctx.Session.Notes(), "No notes saved.")
	return nil
}

type NoteSearchCmd struct {
	Query string `arg:"" help:"Fuzzy search over titles and bodies."`
}

func (c *NoteSearchCmd) Run(ctx *cli.Context) error {
	printNotes(ctx, ctx.Session.SearchNotes(c.Query), "No matching notes.")
	return nil
}

func printNotes(ctx *cli.Context, list []models.Note, empty string) {
	if len(list) == 0 {
		ctx.Println(empty)
		return
	}
	ctx.Printf("%-36s %-16s %s\n", "ID", "Created", "Title")
	ctx.Println(strings.Repeat("-", 90))
	for _, n := range list {
		created := ""
		if !n.CreatedAt.IsZero() {
			created = utils.FormatWhen(n.CreatedAt)
		}
		ctx.Printf("%-36s %-16s %s\n", n.ID, created, cli.Truncate(n.Heading(), 36))
	}
}

type NoteShowCmd struct {
	ID  string `arg:"" help:"Note ID or a unique prefix of it."`
	Raw bool   `help:"Print the body without markdown rendering."`
}

func (c *NoteShowCmd) Run(ctx *cli.Context) error {
	n, err := resolveNote(ctx, c.ID)
	if err != nil {
		return err
	}

	doc := n.Body
	if n.Title != "" {
		doc = "# " + n.Title + "\n\n" + n.Body
	}
	if c.Raw {
		ctx.Println(doc)
		return nil
	}
	ctx.Println(render(doc, ctx.Session.Theme()))
	return nil
}

// render falls back to the plain text when glamour cannot render.
func render(doc string, theme models.Theme) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(theme)),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return doc
	}
	out, err := renderer.Render(doc)
	if err != nil {
		return doc
	}
	return strings.TrimSpace(out)
}

type NoteDeleteCmd struct {
	ID string `arg:"" help:"Note ID or a unique prefix of it."`
}

func (c *NoteDeleteCmd) Run(ctx *cli.Context) error {
	n, err := resolveNote(ctx, c.ID)
	if err != nil {
		return err
	}
	if _, err := ctx.Session.DeleteNote(n.ID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	ctx.Printf("✓ Note deleted: %s\n", n.Heading())
	return nil
}

// NoteRemindCmd schedules a reminder whose text is drafted from a note.
type NoteRemindCmd struct {
	ID string   `arg:"" help:"Note ID or a unique prefix of it."`
	At []string `arg:"" help:"When: \"YYYY-MM-DD HH:MM\", \"HH:MM\" or \"+10m\"."`
}

func (c *NoteRemindCmd) Run(ctx *cli.Context) error {
	n, err := resolveNote(ctx, c.ID)
	if err != nil {
		return err
	}
	text, ok := ctx.Session.DraftFromNote(n.ID)
	if !ok || strings.TrimSpace(text) == "" {
		return apperrors.Usage(fmt.Errorf("note %s has no text to remind about", n.ID))
	}
	at, err := ctx.ParseWhen(strings.Join(c.At, " "))
	if err != nil {
		return apperrors.Usage(err)
	}

	r, err := ctx.Session.AddReminder(text, at)
	if err != nil {
		return fmt.Errorf("failed to add reminder: %w", err)
	}
	ctx.Printf("✓ Reminder set from note: %q at %s\n", cli.Truncate(r.Text, 60), utils.FormatWhen(r.ScheduledAt))
	return nil
}

func resolveNote(ctx *cli.Context, prefix string) (models.Note, error) {
	all := ctx.Session.Notes()
	ids := make([]string, len(all))
	for i, n := range all {
		ids[i] = n.ID
	}
	id, err := cli.ResolveID(ids, prefix)
	if err != nil {
		return models.Note{}, apperrors.Usage(err)
	}
	n, _ := ctx.Session.Note(id)
	return n, nil
}

type NoteCmd struct {
	Add    NoteAddCmd    `cmd:"" help:"Save a note."`
	List   NoteListCmd   `cmd:"" help:"List notes, newest first." default:"1"`
	Show   NoteShowCmd   `cmd:"" help:"Show a note rendered as markdown."`
	Search NoteSearchCmd `cmd:"" help:"Fuzzy search notes."`
	Delete NoteDeleteCmd `cmd:"" help:"Delete a note."`
	Remind NoteRemindCmd `cmd:"" help:"Turn a note into a reminder."`
}
