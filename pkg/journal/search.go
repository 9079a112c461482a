package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/unowned-ai/daybook/pkg/contextutil"
	pkgdb "github.com/unowned-ai/daybook/pkg/db"
)

// Matched is an entry found by SearchJournals and the number of distinct
// search terms it contains.
type Matched struct {
	Listed
	MatchCount int `json:"match_count"`
}

// searchTerms lowercases, trims and dedupes terms, dropping empty ones.
func searchTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	var out []string
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// SearchJournals finds entries whose title or content contains at least one
// of terms, ignoring case. Entries are ranked by how many distinct terms they
// contain, then by date_modified, newest first. A nil folderID searches every
// folder.
func SearchJournals(ctx context.Context, db *sql.DB, folderID *int64, terms []string) ([]Matched, error) {
	terms = searchTerms(terms)
	if len(terms) == 0 {
		return []Matched{}, nil
	}

	// One 0/1 term per query word; their sum is the match count.
	termExpr := fmt.Sprintf("(instr(%[1]s(j.title), ?) > 0 OR instr(%[1]s(j.content), ?) > 0)", pkgdb.LowerFunc)
	matchExpr := strings.Repeat(termExpr+" + ", len(terms)-1) + termExpr

	sqlQuery := fmt.Sprintf(`
	SELECT * FROM (
		SELECT`+journalColumns+`, f.name, f.icon, (%s) AS match_count
		FROM journals j
		LEFT JOIN folders f ON f.id = j.folder_id
		WHERE (? IS NULL OR j.folder_id = ?)
	)
	WHERE match_count > 0
	`, matchExpr)

	args := make([]any, 0, 2*len(terms)+2)
	for _, term := range terms {
		args = append(args, term, term)
	}
	var folderArg any
	if folderID != nil {
		folderArg = *folderID
	}
	args = append(args, folderArg, folderArg)

	rows, err := db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	logger := contextutil.LoggerFromContext(ctx)

	results := []Matched{}
	for rows.Next() {
		var (
			folderName, folderIcon sql.NullString
			matchCount             int
		)
		row, err := scanJournalRow(rows, &folderName, &folderIcon, &matchCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result row: %w", err)
		}
		if !row.resolve() {
			logger.Debug("storage: skipping journal with unparseable date_modified",
				"id", row.ID, "date_modified", row.dateModified.String)
			continue
		}

		m := Matched{
			Listed:     Listed{Journal: row.Journal, FolderName: "others", FolderColor: DefaultColor},
			MatchCount: matchCount,
		}
		if folderName.Valid {
			m.FolderName = folderName.String
		}
		if folderIcon.Valid && folderIcon.String != "" {
			m.FolderColor = folderIcon.String
		}
		results = append(results, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over search results: %w", err)
	}

	sort.SliceStable(results, func(i, k int) bool {
		if results[i].MatchCount != results[k].MatchCount {
			return results[i].MatchCount > results[k].MatchCount
		}
		return results[i].DateModified.After(results[k].DateModified)
	})
	return results, nil
}
