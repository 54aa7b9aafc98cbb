// Package engine implements the five execution operators: one per verb,
// composing scan/join/filter/project/sort/limit for SELECT
// and a read-all/compute/write-all discipline for the three mutating
// verbs, grounded on my_sqlite/query.py's AbstractQuery/FilteredQuery/
// Select/Insert/Update/Delete execute() methods.
package engine

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/darianmavgo/csvsql/catalog"
	"github.com/darianmavgo/csvsql/config"
	"github.com/darianmavgo/csvsql/qerr"
	"github.com/darianmavgo/csvsql/query"
	"github.com/darianmavgo/csvsql/storage"
	"github.com/darianmavgo/csvsql/value"
)

// joinedRow addresses cells of a (possibly two-table) combined row by
// catalog.Key, the only address executors use.
type joinedRow struct {
	left, right []string
}

func (r joinedRow) cell(k catalog.Key) string {
	if k.Table == 0 {
		return r.left[k.Column]
	}
	return r.right[k.Column]
}

// resolveWhere resolves a query.Where's column against cat and coerces its
// literal exactly once. A nil where reports ok == false.
func resolveWhere(cat *catalog.Catalog, where *query.Where) (key catalog.Key, lit value.Value, ok bool, err error) {
	if where == nil {
		return catalog.Key{}, value.Value{}, false, nil
	}
	key, err = cat.Resolve(where.Column)
	if err != nil {
		return catalog.Key{}, value.Value{}, false, err
	}
	return key, value.Coerce(where.Literal), true, nil
}

// resolveProjection expands sel.Projection into a flat list of Keys,
// treating an empty projection as "every column of every bound table" and
// expanding each star term (§4.3) at its position.
func resolveProjection(cat *catalog.Catalog, terms []query.ProjTerm) ([]catalog.Key, error) {
	if len(terms) == 0 {
		return cat.ResolveStar("")
	}
	var keys []catalog.Key
	for _, t := range terms {
		if t.Star {
			expanded, err := cat.ResolveStar(t.Qualifier)
			if err != nil {
				return nil, err
			}
			keys = append(keys, expanded...)
			continue
		}
		k, err := cat.Resolve(t.Column)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// SelectExec runs a SELECT against cfg's database and returns the final
// projected rows in output order.
func SelectExec(cfg *config.Config, sel *query.Select) ([][]string, error) {
	fromTable, err := storage.Open(cfg, sel.From)
	if err != nil {
		return nil, err
	}
	cat := catalog.New()
	cat.Bind(fromTable)

	var rows []joinedRow
	if sel.Join == nil {
		rows = make([]joinedRow, len(fromTable.Records))
		for i, rec := range fromTable.Records {
			rows[i] = joinedRow{left: rec}
		}
	} else {
		joinTable, err := storage.Open(cfg, sel.Join.Table)
		if err != nil {
			return nil, err
		}
		cat.Bind(joinTable)

		var onLeft, onRight catalog.Key
		hasOn := sel.Join.On != nil
		if hasOn {
			onLeft, err = cat.Resolve(sel.Join.On.Left)
			if err != nil {
				return nil, err
			}
			onRight, err = cat.Resolve(sel.Join.On.Right)
			if err != nil {
				return nil, err
			}
		}
		for _, l := range fromTable.Records {
			for _, r := range joinTable.Records {
				jr := joinedRow{left: l, right: r}
				if hasOn {
					a := value.Coerce(jr.cell(onLeft))
					b := value.Coerce(jr.cell(onRight))
					if !a.Equal(b) {
						continue
					}
				}
				rows = append(rows, jr)
			}
		}
	}

	whereKey, whereLit, hasWhere, err := resolveWhere(cat, sel.Where)
	if err != nil {
		return nil, err
	}
	if hasWhere {
		filtered := rows[:0]
		for _, r := range rows {
			if value.Coerce(r.cell(whereKey)).Compare(sel.Where.Op, whereLit) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	type orderKey struct {
		key       catalog.Key
		ascending bool
	}
	var orderKeys []orderKey
	for _, term := range sel.OrderBy {
		k, err := cat.Resolve(term.Column)
		if err != nil {
			return nil, err
		}
		orderKeys = append(orderKeys, orderKey{key: k, ascending: term.Ascending})
	}
	for i := len(orderKeys) - 1; i >= 0; i-- {
		ok := orderKeys[i]
		sort.SliceStable(rows, func(a, b int) bool {
			return value.Less3(value.Coerce(rows[a].cell(ok.key)), value.Coerce(rows[b].cell(ok.key)), ok.ascending)
		})
	}

	if sel.Limit >= 0 && sel.Limit < len(rows) {
		rows = rows[:sel.Limit]
	}

	projKeys, err := resolveProjection(cat, sel.Projection)
	if err != nil {
		return nil, err
	}

	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = make([]string, len(projKeys))
		for j, k := range projKeys {
			out[i][j] = r.cell(k)
		}
	}
	return out, nil
}

// DescribeExec returns the case-preserved header of the named table.
func DescribeExec(cfg *config.Config, desc *query.Describe) ([]string, error) {
	t, err := storage.Open(cfg, desc.Table)
	if err != nil {
		return nil, err
	}
	return t.Headers, nil
}

func columnIndex(t *storage.Table, name string) (int, error) {
	idx, ok := t.HeaderIndex[strings.ToLower(name)]
	if !ok {
		return 0, &qerr.NoSuchColumn{Ref: name}
	}
	return idx, nil
}

// InsertExec runs INSERT: the column-0-required and arity-vs-table-arity
// rules deferred by query.NewInsert are checked here, since they need the
// opened table; rows are validated in full before any write (§4.6).
func InsertExec(cfg *config.Config, ins *query.Insert) error {
	t, err := storage.Open(cfg, ins.Table)
	if err != nil {
		return err
	}

	arity := t.Arity()
	var targets []int // target column index for each position in ins.Values[i]
	if ins.Columns == nil {
		if len(ins.Values[0]) != arity {
			return &qerr.InsertError{Msg: "the number of values must match the table's arity"}
		}
		targets = make([]int, arity)
		for i := range targets {
			targets[i] = i
		}
	} else {
		hasPK := false
		targets = make([]int, len(ins.Columns))
		for i, name := range ins.Columns {
			idx, err := columnIndex(t, name)
			if err != nil {
				return err
			}
			if idx == 0 {
				hasPK = true
			}
			targets[i] = idx
		}
		if !hasPK {
			return &qerr.InsertError{Msg: "the value of the column at index 0 must be specified"}
		}
	}

	existing := make(map[string]bool, len(t.Records))
	for _, rec := range t.Records {
		existing[rec[0]] = true
	}

	built := make([][]string, len(ins.Values))
	for i, values := range ins.Values {
		row := make([]string, arity)
		for j, v := range values {
			row[targets[j]] = v
		}
		if existing[row[0]] {
			return &qerr.InsertError{Msg: fmt.Sprintf("attempting to store more than one record with id '%s'; aborting the insert", row[0])}
		}
		existing[row[0]] = true
		built[i] = row
	}

	if err := t.Append(cfg, built); err != nil {
		return err
	}
	if cfg.Verbose {
		log.Printf("[CSVSQL] rewrote table %s: %d records", t.Name, len(t.Records))
	}
	return nil
}

// UpdateExec runs UPDATE: every matching record is overwritten in place,
// the post-update table is checked for a primary-key collision the update
// itself introduced (an already-duplicated file that the update never
// touches is left alone), then the whole table is rewritten once.
func UpdateExec(cfg *config.Config, upd *query.Update) error {
	t, err := storage.Open(cfg, upd.Table)
	if err != nil {
		return err
	}
	cat := catalog.New()
	cat.Bind(t)

	type assignment struct {
		index int
		value string
	}
	assignments := make([]assignment, len(upd.Set))
	for i, a := range upd.Set {
		idx, err := columnIndex(t, a.Column)
		if err != nil {
			return err
		}
		assignments[i] = assignment{index: idx, value: a.Value}
	}

	whereKey, whereLit, hasWhere, err := resolveWhere(cat, upd.Where)
	if err != nil {
		return err
	}

	updated := make([][]string, len(t.Records))
	touched := make([]bool, len(t.Records))
	for i, rec := range t.Records {
		if hasWhere && !value.Coerce(rec[whereKey.Column]).Compare(upd.Where.Op, whereLit) {
			updated[i] = rec
			continue
		}
		row := append([]string(nil), rec...)
		for _, a := range assignments {
			row[a.index] = a.value
		}
		updated[i] = row
		touched[i] = true
	}

	byID := make(map[string][]int)
	for i, rec := range updated {
		byID[rec[0]] = append(byID[rec[0]], i)
	}
	for id, indices := range byID {
		if len(indices) < 2 {
			continue
		}
		for _, i := range indices {
			if touched[i] {
				return &qerr.UpdateError{Msg: fmt.Sprintf("Attempting to store more than one record with id '%s'; refusing to update", id)}
			}
		}
	}

	if err := t.Write(cfg, updated); err != nil {
		return err
	}
	if cfg.Verbose {
		log.Printf("[CSVSQL] rewrote table %s: %d records", t.Name, len(t.Records))
	}
	return nil
}

// DeleteExec runs DELETE: records matching WHERE are dropped, the table is
// rewritten once with the remaining records in original order.
func DeleteExec(cfg *config.Config, del *query.Delete) error {
	t, err := storage.Open(cfg, del.Table)
	if err != nil {
		return err
	}
	cat := catalog.New()
	cat.Bind(t)

	whereKey, whereLit, hasWhere, err := resolveWhere(cat, del.Where)
	if err != nil {
		return err
	}

	kept := t.Records[:0:0]
	for _, rec := range t.Records {
		if hasWhere && value.Coerce(rec[whereKey.Column]).Compare(del.Where.Op, whereLit) {
			continue
		}
		kept = append(kept, rec)
	}
	if err := t.Write(cfg, kept); err != nil {
		return err
	}
	if cfg.Verbose {
		log.Printf("[CSVSQL] rewrote table %s: %d records", t.Name, len(t.Records))
	}
	return nil
}
