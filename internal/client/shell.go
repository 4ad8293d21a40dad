package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// API is the subset of Client the shell uses.
type API interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	DrawCard(ctx context.Context, studentID string) (models.Card, error)
	SubmitOutcome(ctx context.Context, cardID string, success bool) (models.Card, error)
	StudentStats(ctx context.Context, studentID string) (models.StudentStats, error)
}

const helpText = `Available commands:
  students        list students
  use <name>      select a student
  draw            draw a card for the selected student
  answer          show the answer of the drawn card
  ok | fail       record the outcome of the drawn card
  stats           show box counts of the selected student
  help            show this help
  exit            leave the shell`

// Shell is the interactive review loop.
type Shell struct {
	api     API
	in      io.Reader
	out     io.Writer
	session *Session
	// card is the drawn card awaiting an outcome.
	card *models.Card
}

// NewShell builds a shell reading commands from in and writing to out.
func NewShell(api API, session *Session, in io.Reader, out io.Writer) *Shell {
	return &Shell{api: api, session: session, in: in, out: out}
}

// Run processes commands until exit, end of input or ctx cancellation.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "gacha> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			fmt.Fprintln(s.out, "Bye")
			return nil
		}
		if err := s.exec(ctx, args); err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
	}
}

func (s *Shell) exec(ctx context.Context, args []string) error {
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "students":
		return s.students(ctx)
	case "use":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: use <name>")
			return nil
		}
		return s.use(ctx, strings.Join(args[1:], " "))
	case "draw":
		return s.draw(ctx)
	case "answer":
		if s.card == nil {
			fmt.Fprintln(s.out, "Draw a card first")
			return nil
		}
		fmt.Fprintf(s.out, "Answer: %s\n", s.card.Answer)
	case "ok", "fail":
		return s.outcome(ctx, args[0] == "ok")
	case "stats":
		return s.stats(ctx)
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}

func (s *Shell) students(ctx context.Context) error {
	list, err := s.api.ListStudents(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(s.out, "No students yet")
		return nil
	}
	currentID, _, _ := s.session.Current()
	for _, st := range list {
		marker := " "
		if st.ID == currentID {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %s\n", marker, st.Name)
	}
	return nil
}

func (s *Shell) use(ctx context.Context, name string) error {
	list, err := s.api.ListStudents(ctx)
	if err != nil {
		return err
	}
	for _, st := range list {
		if st.Name == name {
			s.card = nil
			if err := s.session.Use(st.ID, st.Name); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintf(s.out, "Now reviewing %s\n", st.Name)
			return nil
		}
	}
	fmt.Fprintf(s.out, "Student %q not found\n", name)
	return nil
}

// studentID returns the selected student or prints a hint.
func (s *Shell) studentID() (string, bool) {
	id, _, ok := s.session.Current()
	if !ok {
		fmt.Fprintln(s.out, "Select a student first: use <name>")
	}
	return id, ok
}

func (s *Shell) draw(ctx context.Context) error {
	id, ok := s.studentID()
	if !ok {
		return nil
	}
	card, err := s.api.DrawCard(ctx, id)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		fmt.Fprintln(s.out, "No cards to review")
		return nil
	}
	if err != nil {
		return err
	}

	s.card = &card
	fmt.Fprintf(s.out, "[box %d] ", card.Box)
	if card.Type == models.ImageCard && card.QuestionImage != nil {
		fmt.Fprintf(s.out, "(image: /assets/%s) ", *card.QuestionImage)
	}
	fmt.Fprintln(s.out, card.Question)
	return nil
}

func (s *Shell) outcome(ctx context.Context, success bool) error {
	if s.card == nil {
		fmt.Fprintln(s.out, "Draw a card first")
		return nil
	}
	before := s.card.Box
	card, err := s.api.SubmitOutcome(ctx, s.card.ID, success)
	if err != nil {
		return err
	}
	s.card = nil
	fmt.Fprintf(s.out, "Box %d -> %d\n", before, card.Box)
	return nil
}

func (s *Shell) stats(ctx context.Context) error {
	id, ok := s.studentID()
	if !ok {
		return nil
	}
	st, err := s.api.StudentStats(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Total %d | box1 %d | box2 %d | box3 %d | box4 %d\n",
		st.Total, st.Box1, st.Box2, st.Box3, st.Box4)
	return nil
}
