// Package report renders transaction exports. All three formats (plain-text
// statement, CSV, SpreadsheetML) are built from the same row set so the field
// order and number formatting never drift between them.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/beevik/etree"

	"finwise/internal/core"
)

// columns is the shared header, in export order.
var columns = []string{"Date", "Description", "Category", "Type", "Amount", "Running Total"}

// Row is one statement line. Amount is signed: income positive, expense
// negative. Running holds the balance after applying this row.
type Row struct {
	Date        core.Date
	Description string
	Category    string
	Kind        core.Kind
	Amount      core.Money
	Running     core.Money
}

// BuildRows converts transactions into statement rows, preserving the input
// order and threading a running total through it.
func BuildRows(txs []core.Transaction) []Row {
	rows := make([]Row, 0, len(txs))
	running := core.Money{}
	for _, t := range txs {
		amount := t.Amount
		if t.Kind == core.Expense {
			amount = core.Money{Cents: -t.Amount.Cents}
		}
		running = running.Add(amount)
		rows = append(rows, Row{
			Date:        t.Date,
			Description: t.Description,
			Category:    t.Category,
			Kind:        t.Kind,
			Amount:      amount,
			Running:     running,
		})
	}
	return rows
}

func (r Row) cells() []string {
	return []string{
		r.Date.Format("01/02/2006"),
		r.Description,
		r.Category,
		string(r.Kind),
		r.Amount.String(),
		r.Running.String(),
	}
}

// FinalTotal is the running total after the last row, zero when empty.
func FinalTotal(rows []Row) core.Money {
	if len(rows) == 0 {
		return core.Money{}
	}
	return rows[len(rows)-1].Running
}

// Statement writes a columnar plain-text statement with a trailing total line.
func Statement(w io.Writer, txs []core.Transaction) error {
	rows := BuildRows(txs)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, col := range columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)

	for _, r := range rows {
		cells := r.cells()
		for i, c := range cells {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintf(tw, "\nTotal\t\t\t\t\t%s\n", FinalTotal(rows).String())
	return tw.Flush()
}

// CSV writes the rows as a spreadsheet-importable CSV with a header line.
func CSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range BuildRows(txs) {
		if err := cw.Write(r.cells()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

const spreadsheetNS = "urn:schemas-microsoft-com:office:spreadsheet"

// SpreadsheetML writes the rows as a single-worksheet Excel 2003 XML
// workbook. Amount and running-total cells are numeric so spreadsheet apps
// can sum them directly.
func SpreadsheetML(w io.Writer, txs []core.Transaction) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateProcInst("mso-application", `progid="Excel.Sheet"`)

	workbook := doc.CreateElement("Workbook")
	workbook.CreateAttr("xmlns", spreadsheetNS)
	workbook.CreateAttr("xmlns:ss", spreadsheetNS)

	sheet := workbook.CreateElement("Worksheet")
	sheet.CreateAttr("ss:Name", "Transactions")
	table := sheet.CreateElement("Table")

	header := table.CreateElement("Row")
	for _, col := range columns {
		addCell(header, "String", col)
	}

	for _, r := range BuildRows(txs) {
		row := table.CreateElement("Row")
		cells := r.cells()
		for i, c := range cells {
			kind := "String"
			// Amount and Running Total are the two numeric columns.
			if i >= 4 {
				kind = "Number"
			}
			addCell(row, kind, c)
		}
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func addCell(row *etree.Element, kind, value string) {
	data := row.CreateElement("Cell").CreateElement("Data")
	data.CreateAttr("ss:Type", kind)
	data.SetText(value)
}
