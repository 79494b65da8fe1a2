// Command seedagenda converts the institutional research agenda Excel
// workbook into a SQL seed file. The first sheet holds the institutional
// agenda; every further sheet holds one department's agenda, named by
// the sheet.
// Usage: go run ./cmd/seedagenda [workbook.xlsx]
// Output: db/seeds/agenda_trees.sql
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"gradus/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "research_agenda.xlsx"
	if len(os.Args) > 1 {
		xlsxPath = os.Args[1]
	}
	outPath := "db/seeds/agenda_trees.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}

	type tree struct {
		agendaType domain.AgendaType
		department string
		roots      []domain.AgendaNode
	}
	var trees []tree

	for i, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		roots := parseOutline(rows)
		if len(roots) == 0 {
			log.Printf("sheet %q: no agenda rows, skipped", sheet)
			continue
		}

		t := tree{agendaType: domain.AgendaDepartmental, department: strings.TrimSpace(sheet), roots: roots}
		if i == 0 {
			t.agendaType = domain.AgendaInstitutional
			t.department = ""
		}
		trees = append(trees, t)
		log.Printf("sheet %q: %d roots", sheet, len(roots))
	}

	if len(trees) == 0 {
		return fmt.Errorf("no agenda trees found in %s", xlsxPath)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	var b strings.Builder
	b.WriteString("-- Research agenda seed data generated from the institutional workbook.\n")
	fmt.Fprintf(&b, "-- %d trees.\n", len(trees))
	b.WriteString("-- Apply: psql \"$DATABASE_URL\" -f db/seeds/agenda_trees.sql\n")
	b.WriteString("BEGIN;\n\n")

	for _, t := range trees {
		rootsJSON, err := json.Marshal(t.roots)
		if err != nil {
			return fmt.Errorf("marshal roots for %q: %w", t.department, err)
		}
		b.WriteString("INSERT INTO agenda_trees (id, agenda_type, department, roots, updated_at) VALUES\n")
		fmt.Fprintf(&b, "  (gen_random_uuid(), '%s', '%s', '%s'::jsonb, now())\n",
			t.agendaType, escapeSQL(t.department), escapeSQL(string(rootsJSON)))
		b.WriteString("ON CONFLICT (agenda_type, department) DO UPDATE SET roots = EXCLUDED.roots, updated_at = now();\n\n")
	}

	b.WriteString("COMMIT;\n")
	if _, err := out.WriteString(b.String()); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}

	log.Printf("Generated %d trees in %s", len(trees), outPath)
	return nil
}

// parseOutline builds a tree from indented outline rows: the index of
// a row's first non-empty cell is its depth, the cell value its label.
// Rows deeper than parent+1 are clamped to the next level so a sloppy
// workbook still produces a connected tree.
func parseOutline(rows [][]string) []domain.AgendaNode {
	var roots []domain.AgendaNode
	// stack[d] points at the most recent node of depth d.
	var stack []*domain.AgendaNode

	for _, row := range rows {
		depth, label := firstCell(row)
		if label == "" {
			continue
		}
		if depth > len(stack) {
			depth = len(stack)
		}

		node := domain.AgendaNode{Name: label}
		if depth == 0 {
			roots = append(roots, node)
			stack = []*domain.AgendaNode{&roots[len(roots)-1]}
			continue
		}

		parent := stack[depth-1]
		parent.SubAgenda = append(parent.SubAgenda, node)
		stack = append(stack[:depth], &parent.SubAgenda[len(parent.SubAgenda)-1])
	}
	return roots
}

func firstCell(row []string) (int, string) {
	for i, cell := range row {
		if v := strings.TrimSpace(cell); v != "" {
			return i, v
		}
	}
	return 0, ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
