package web

import (
	"html/template"

	"github.com/FACorreiaa/ledger/internal/domain/analytics"
)

// templateFuncs exposes the handful of formatting helpers views need.
var templateFuncs = template.FuncMap{
	"currency": analytics.FormatCurrency,
}

// pageSource holds every template definition. Each page is a standalone
// document; each fragment (named "fragment:<name>") is the inner partial an
// HTMX request receives instead of the full page — minimal markup, since
// styling and the HTMX interaction model are out of scope (spec.md §1) and
// these exist only to exercise C7's response-composition logic.
const pageSource = `
{{define "dashboard"}}<!DOCTYPE html><html><body>{{template "fragment:dashboard" .}}</body></html>{{end}}
{{define "fragment:dashboard"}}
<div id="dashboard">
  <h1>Dashboard</h1>
  <p id="total-balance">{{currency .TotalBalance}}</p>
  <table id="month-buckets">
    <thead><tr><th>Month</th><th>Net income</th><th>Running balance</th>{{range .Tags}}<th>{{.}}</th>{{end}}</tr></thead>
    <tbody>
      {{range .Rows}}
      {{$row := .}}
      <tr data-month="{{.Month.Format "2006-01"}}">
        <td>{{.Month.Format "Jan 2006"}}</td>
        <td class="net-income">{{currency .NetIncome}}</td>
        <td class="running-balance">{{currency .RunningBalance}}</td>
        {{range $.Tags}}<td class="by-tag">{{currency (index $row.ByTag .)}}</td>{{end}}
      </tr>
      {{end}}
    </tbody>
  </table>
</div>
{{end}}

{{define "transactions"}}<!DOCTYPE html><html><body>{{template "fragment:transactions" .}}</body></html>{{end}}
{{define "fragment:transactions"}}
<div id="transactions">
  <h1>Transactions</h1>
  <p id="range-label">{{.RangeLabel}}</p>
  {{range .Buckets}}
  <section>
    <h2>{{.Range.Start.Format "2 Jan 2006"}} - {{.Range.End.Format "2 Jan 2006"}}</h2>
    <p>Income: {{currency .Totals.Income}} Expenses: {{currency .Totals.Expenses}}</p>
    {{range .Days}}
      {{$date := .Date}}
      {{range .Transactions}}
      <div class="transaction" data-id="{{.ID}}">
        <span class="date">{{$date.Format "2 Jan 2006"}}</span>
        <span class="description">{{.Description}}</span>
        <span class="amount">{{currency .Amount}}</span>
      </div>
      {{end}}
    {{end}}
  </section>
  {{end}}
</div>
{{end}}

{{define "transaction_form"}}<!DOCTYPE html><html><body>{{template "fragment:transaction_form" .}}</body></html>{{end}}
{{define "fragment:transaction_form"}}
<form id="transaction-form" method="post">
  {{if .Error}}<div class="alert alert-error">{{.Error}}</div>{{end}}
  <input type="hidden" name="redirect_url" value="{{.RedirectURL}}">
  <select name="type"><option value="income">Income</option><option value="expense">Expense</option></select>
  <input type="number" step="0.01" name="amount" value="{{.Amount}}">
  <input type="date" name="date" value="{{.Date}}">
  <input type="text" name="description" value="{{.Description}}">
  <button type="submit">Save</button>
</form>
{{end}}

{{define "import_form"}}<!DOCTYPE html><html><body>{{template "fragment:import_form" .}}</body></html>{{end}}
{{define "fragment:import_form"}}
<form id="import-form" method="post" enctype="multipart/form-data">
  {{if .Error}}<div class="alert alert-error">{{.Error}}</div>{{end}}
  {{if .Result}}<div class="alert alert-success">Imported {{.Result.RowsInserted}} of {{.Result.RowsParsed}} rows.</div>{{end}}
  <input type="file" name="files" accept="text/csv" multiple>
  <button type="submit">Import</button>
</form>
{{end}}

{{define "quick_tagging"}}<!DOCTYPE html><html><body>{{template "fragment:quick_tagging" .}}</body></html>{{end}}
{{define "fragment:quick_tagging"}}
<form id="quick-tagging-form" method="post">
  {{range .Entries}}
  <div class="queue-entry" data-id="{{.TransactionID}}">
    <span>{{.Description}}</span>
    <select name="tag_id_{{.TransactionID}}">
      <option value="">Untagged</option>
      {{range $.Tags}}<option value="{{.ID}}">{{.Name}}</option>{{end}}
    </select>
    <label><input type="checkbox" name="dismiss" value="{{.TransactionID}}"> Dismiss</label>
  </div>
  {{end}}
  <button type="submit">Apply</button>
</form>
{{end}}

{{define "balances"}}<!DOCTYPE html><html><body>{{template "fragment:balances" .}}</body></html>{{end}}
{{define "fragment:balances"}}
<div id="balances">
  {{range .Accounts}}<div class="account"><span>{{.Name}}</span><span>{{currency .Balance}}</span></div>{{end}}
</div>
{{end}}

{{define "tags"}}<!DOCTYPE html><html><body>{{template "fragment:tags" .}}</body></html>{{end}}
{{define "fragment:tags"}}
<ul id="tags">{{range .Tags}}<li data-id="{{.ID}}">{{.Name}}</li>{{end}}</ul>
{{end}}

{{define "tag_form"}}<!DOCTYPE html><html><body>{{template "fragment:tag_form" .}}</body></html>{{end}}
{{define "fragment:tag_form"}}
<form id="tag-form" method="post">
  {{if .Error}}<div class="alert alert-error">{{.Error}}</div>{{end}}
  <input type="text" name="name" value="{{.Name}}">
  <button type="submit">Save</button>
</form>
{{end}}

{{define "rules"}}<!DOCTYPE html><html><body>{{template "fragment:rules" .}}</body></html>{{end}}
{{define "fragment:rules"}}
<ul id="rules">{{range .Rules}}<li data-id="{{.ID}}">{{.Pattern}} -&gt; {{.TagName}}</li>{{end}}</ul>
{{end}}

{{define "rule_form"}}<!DOCTYPE html><html><body>{{template "fragment:rule_form" .}}</body></html>{{end}}
{{define "fragment:rule_form"}}
<form id="rule-form" method="post">
  {{if .Error}}<div class="alert alert-error">{{.Error}}</div>{{end}}
  <input type="text" name="pattern" value="{{.Pattern}}">
  <select name="tag_id">{{range .Tags}}<option value="{{.ID}}">{{.Name}}</option>{{end}}</select>
  <button type="submit">Save</button>
</form>
{{end}}

{{define "register"}}<!DOCTYPE html><html><body>
<form id="register-form" method="post" action="/api/register">
  {{if .Error}}<div class="alert alert-error">{{.Error}}</div>{{end}}
  <input type="password" name="password">
  <input type="password" name="confirm_password">
  <button type="submit">Register</button>
</form>
</body></html>{{end}}

{{define "login"}}<!DOCTYPE html><html><body>
<form id="login-form" method="post">
  {{if .Error}}<div class="alert alert-error">{{.Error}}</div>{{end}}
  <input type="hidden" name="redirect_url" value="{{.RedirectURL}}">
  <input type="email" name="email">
  <input type="password" name="password">
  <label><input type="checkbox" name="remember_me"> Remember me</label>
  <button type="submit">Log in</button>
</form>
</body></html>{{end}}
`

func newTemplates() *template.Template {
	return template.Must(template.New("pages").Funcs(templateFuncs).Parse(pageSource))
}
