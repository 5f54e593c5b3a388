// Package view renders the planner pages from html/template sets.
//
// Every page has a required "content" block and may declare optional
// sections. A template set that lacks an optional section simply renders
// without it, and handlers use Has to switch off the matching action.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/atinyakov/sbp/internal/models"
)

//go:embed templates static
var assets embed.FS

// Templates returns the built-in template set.
func Templates() fs.FS {
	sub, err := fs.Sub(assets, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the built-in stylesheet directory.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Optional section names.
const (
	SectionCards  = "cards"
	SectionIncome = "income"
	SectionRecent = "recent"
	SectionForm   = "form"
	SectionList   = "list"
)

// Page describes one view and the optional sections it may show.
type Page struct {
	Name     string
	Title    string
	Optional []string
}

var (
	// LoginPage is the identity-entry view.
	LoginPage = Page{Name: "login", Title: "Login"}
	// DashboardPage is the overview.
	DashboardPage = Page{Name: "dashboard", Title: "Dashboard", Optional: []string{SectionCards, SectionIncome, SectionRecent}}
	// TransactionsPage is the transaction log.
	TransactionsPage = Page{Name: "transactions", Title: "Transactions", Optional: []string{SectionForm, SectionList}}
	// GoalsPage is the goal tracker.
	GoalsPage = Page{Name: "goals", Title: "Goals", Optional: []string{SectionForm, SectionList}}
	// ConfirmRemovalPage asks before a goal is removed.
	ConfirmRemovalPage = Page{Name: "confirm", Title: "Remove goal"}
)

// Pages lists every page a template set must provide.
var Pages = []Page{LoginPage, DashboardPage, TransactionsPage, GoalsPage, ConfirmRemovalPage}

// Data is passed to every template.
type Data struct {
	Page   string
	Title  string
	User   string
	Notice string
	Error  string
	Model  any
	// Sections holds the rendered optional sections, keyed by name.
	Sections map[string]template.HTML
}

// LoginModel backs the login page.
type LoginModel struct {
	Name string
}

// DashboardModel backs the dashboard.
type DashboardModel struct {
	Overview    models.Overview
	IncomeInput string
}

// TransactionForm echoes a rejected transaction back to the user.
type TransactionForm struct {
	Description string
	Amount      string
	Kind        string
}

// TransactionsModel backs the transaction log.
type TransactionsModel struct {
	Transactions []models.Transaction
	Summary      models.Summary
	Form         TransactionForm
}

// GoalForm echoes a rejected goal back to the user.
type GoalForm struct {
	Name   string
	Target string
}

// GoalsModel backs the goal tracker.
type GoalsModel struct {
	Goals []models.GoalProgress
	Form  GoalForm
}

// ConfirmModel backs the goal removal confirmation.
type ConfirmModel struct {
	Goal models.GoalProgress
}

// Renderer executes the parsed template set of every page.
type Renderer struct {
	money *Money
	pages map[string]*template.Template
}

// New parses layout.html and pages/<name>.html for every page in fsys.
// A page without a "content" block is an error.
func New(fsys fs.FS, m *Money) (*Renderer, error) {
	r := &Renderer{money: m, pages: make(map[string]*template.Template, len(Pages))}
	for _, p := range Pages {
		t, err := template.New(p.Name).Option("missingkey=zero").Funcs(r.funcs()).ParseFS(fsys, "layout.html", "pages/"+p.Name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", p.Name, err)
		}
		if t.Lookup("layout") == nil {
			return nil, fmt.Errorf("page %s: missing layout block", p.Name)
		}
		if t.Lookup("content") == nil {
			return nil, fmt.Errorf("page %s: missing content block", p.Name)
		}
		r.pages[p.Name] = t
	}
	return r, nil
}

// Has reports whether the template set of page defines section.
func (r *Renderer) Has(p Page, section string) bool {
	t, ok := r.pages[p.Name]
	return ok && t.Lookup(section) != nil
}

// Money returns the formatter used by the templates.
func (r *Renderer) Money() *Money { return r.money }

// Render executes page with d. Output is buffered so a failing template
// never produces a half-written response.
func (r *Renderer) Render(p Page, d Data) ([]byte, error) {
	t, ok := r.pages[p.Name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", p.Name)
	}
	d.Page = p.Name
	if d.Title == "" {
		d.Title = p.Title
	}

	d.Sections = make(map[string]template.HTML, len(p.Optional))
	var buf bytes.Buffer
	for _, name := range p.Optional {
		if t.Lookup(name) == nil {
			continue
		}
		buf.Reset()
		if err := t.ExecuteTemplate(&buf, name, d); err != nil {
			return nil, fmt.Errorf("render %s/%s: %w", p.Name, name, err)
		}
		// Sections were produced by html/template and are already escaped.
		d.Sections[name] = template.HTML(buf.String())
	}

	buf.Reset()
	if err := t.ExecuteTemplate(&buf, "layout", d); err != nil {
		return nil, fmt.Errorf("render %s: %w", p.Name, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string { return r.money.Format(v) },
		"when":  formatDate,
		"isIncome": func(k models.Kind) bool {
			return k == models.Income
		},
	}
}

// formatDate renders a stored ISO timestamp for people; unparseable
// values are shown as stored.
func formatDate(tx models.Transaction) string {
	ts := tx.Time()
	if ts.IsZero() {
		return tx.Date
	}
	return ts.UTC().Format("02 Jan 2006, 15:04")
}

var notices = map[string]string{
	"income-saved":        "Income saved",
	"transaction-added":   "Transaction added",
	"transaction-deleted": "Transaction deleted",
	"goal-added":          "Goal added",
	"goal-updated":        "Goal updated",
	"goal-removed":        "Goal removed",
}

// Notice maps a notice code from a redirect to its message. Unknown codes
// map to "".
func Notice(code string) string {
	return notices[code]
}
