package view

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/atinyakov/sbp/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Format(t *testing.T) {
	inr, err := NewMoney("inr")
	require.NoError(t, err)
	assert.Equal(t, "INR", inr.Code())

	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{150, "₹150.00"},
		{1234.5, "₹1234.50"},
		{0.125, "₹0.13"},
		{-200, "₹-200.00"},
		{-0.004, "₹0.00"},
		{1000000, "₹1000000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inr.Format(tt.in), "Format(%v)", tt.in)
	}

	usd, err := NewMoney("USD")
	require.NoError(t, err)
	assert.Equal(t, "$9.99", usd.Format(9.99))
	assert.Equal(t, "$-9.99", usd.Format(-9.99))
}

func TestMoney_UnknownCurrency(t *testing.T) {
	_, err := NewMoney("XYZ1")
	assert.Error(t, err)
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	m, err := NewMoney("INR")
	require.NoError(t, err)
	r, err := New(Templates(), m)
	require.NoError(t, err)
	return r
}

func TestRenderer_BuiltinHasAllSections(t *testing.T) {
	r := newRenderer(t)
	for _, p := range Pages {
		for _, s := range p.Optional {
			assert.True(t, r.Has(p, s), "%s/%s", p.Name, s)
		}
	}
	assert.False(t, r.Has(LoginPage, SectionForm))
	assert.False(t, r.Has(Page{Name: "nope"}, SectionForm))
}

func TestRenderer_Dashboard(t *testing.T) {
	r := newRenderer(t)
	out, err := r.Render(DashboardPage, Data{
		User: "Asha",
		Model: DashboardModel{Overview: models.Overview{
			User:    "Asha",
			Summary: models.Summary{Income: 1500, Expenses: 200, Balance: 1300},
			Recent:  []models.Transaction{{ID: "1", Description: "Books", Amount: 200, Kind: models.Expense}},
		}},
	})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "Hello, Asha")
	assert.Contains(t, html, "₹1500.00")
	assert.Contains(t, html, "₹200.00")
	assert.Contains(t, html, "₹1300.00")
	assert.Contains(t, html, `Books <span class="kind">expense</span> • <span class="amount">₹200.00</span>`)
	assert.Contains(t, html, `action="/logout"`)
	assert.Contains(t, html, "<title>Dashboard")
}

func TestRenderer_EscapesUserInput(t *testing.T) {
	r := newRenderer(t)
	out, err := r.Render(TransactionsPage, Data{
		User: "<b>x</b>",
		Model: TransactionsModel{Transactions: []models.Transaction{
			{ID: "a", Description: "<script>alert(1)</script>", Amount: 5, Kind: models.Income, Date: "2024-01-02T03:04:05.000Z"},
		}},
	})
	require.NoError(t, err)
	html := string(out)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "02 Jan 2024, 03:04")
	assert.Contains(t, html, `/transactions/a/delete`)
}

func TestRenderer_TransactionTotals(t *testing.T) {
	r := newRenderer(t)
	out, err := r.Render(TransactionsPage, Data{
		User:  "Asha",
		Model: TransactionsModel{Summary: models.Summary{Income: 100, Expenses: 300, Balance: -200}},
	})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `<span id="tx-income">₹100.00</span>`)
	assert.Contains(t, html, `<span id="tx-expenses">₹300.00</span>`)
	assert.Contains(t, html, `<span id="tx-balance">₹-200.00</span>`)
}

func TestRenderer_NoticeAndError(t *testing.T) {
	r := newRenderer(t)
	out, err := r.Render(LoginPage, Data{Notice: Notice("goal-added"), Error: "Please enter your name", Model: LoginModel{}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Goal added")
	assert.Contains(t, string(out), "Please enter your name")
	assert.NotContains(t, string(out), `action="/logout"`, "anonymous pages have no navigation")
}

func TestRenderer_OptionalSectionsMayBeAbsent(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.html":             {Data: []byte(`{{define "layout"}}[{{template "content" .}}]{{end}}`)},
		"pages/login.html":        {Data: []byte(`{{define "content"}}login{{end}}`)},
		"pages/dashboard.html":    {Data: []byte(`{{define "content"}}dash{{.Sections.cards}}{{.Sections.recent}}{{end}}{{define "cards"}}-cards{{end}}`)},
		"pages/transactions.html": {Data: []byte(`{{define "content"}}tx{{.Sections.list}}{{end}}`)},
		"pages/goals.html":        {Data: []byte(`{{define "content"}}goals{{end}}`)},
		"pages/confirm.html":      {Data: []byte(`{{define "content"}}confirm{{end}}`)},
	}
	m, _ := NewMoney("INR")
	r, err := New(fsys, m)
	require.NoError(t, err)

	assert.True(t, r.Has(DashboardPage, SectionCards))
	assert.False(t, r.Has(DashboardPage, SectionRecent))
	assert.False(t, r.Has(GoalsPage, SectionForm))

	out, err := r.Render(DashboardPage, Data{})
	require.NoError(t, err)
	assert.Equal(t, "[dash-cards]", string(out))

	out, err = r.Render(TransactionsPage, Data{})
	require.NoError(t, err)
	assert.Equal(t, "[tx]", string(out))
}

func TestNew_MissingContent(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.html":             {Data: []byte(`{{define "layout"}}{{end}}`)},
		"pages/login.html":        {Data: []byte(`{{define "other"}}{{end}}`)},
		"pages/dashboard.html":    {Data: []byte(`{{define "content"}}{{end}}`)},
		"pages/transactions.html": {Data: []byte(`{{define "content"}}{{end}}`)},
		"pages/goals.html":        {Data: []byte(`{{define "content"}}{{end}}`)},
		"pages/confirm.html":      {Data: []byte(`{{define "content"}}{{end}}`)},
	}
	_, err := New(fsys, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "content"), err.Error())
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(fstest.MapFS{"layout.html": {Data: []byte(`{{define "layout"}}{{end}}`)}}, nil)
	assert.Error(t, err)
}

func TestNotice(t *testing.T) {
	assert.Equal(t, "Income saved", Notice("income-saved"))
	assert.Equal(t, "", Notice("<script>"))
}

func TestStatic(t *testing.T) {
	data, err := fs.ReadFile(Static(), "style.css")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
