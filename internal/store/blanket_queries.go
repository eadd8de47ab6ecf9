package store

import (
	"context"
	"fmt"

	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// BlanketQueryOptions parameterizes the three Markov-blanket queries.
// Blocklist and semantic-type exclusion are always applied, per
// SPEC_FULL.md §8 (the reimplementer guidance to apply both
// consistently, unlike the source's inconsistent application).
type BlanketQueryOptions struct {
	Predicates []models.Predicate
	MinPMIDs   int
	Blocklist  []models.CUI
}

func (s *PostgresStore) blockClause(startIdx int, blocklist []models.CUI) (string, []any) {
	if len(blocklist) == 0 {
		return "", nil
	}
	return fmt.Sprintf(" AND subject_cui != ALL($%d) AND object_cui != ALL($%d)", startIdx, startIdx), []any{blocklist}
}

// FetchParents returns the distinct surface names of every CUI with a
// filtered edge into target: (subject -> target).
func (s *PostgresStore) FetchParents(ctx context.Context, target models.CUI, opts BlanketQueryOptions) ([]string, error) {
	args := []any{opts.Predicates, excludedSemanticTypes(), target}
	blockSQL, blockArgs := s.blockClause(len(args)+1, opts.Blocklist)
	args = append(args, blockArgs...)
	thresholdIdx := len(args) + 1
	args = append(args, opts.MinPMIDs)

	sql := fmt.Sprintf(`
		SELECT DISTINCT subject_name
		FROM %s
		WHERE predicate = ANY($1)
		  AND subject_semtype != ALL($2)
		  AND object_semtype != ALL($2)
		  AND object_cui = $3%s
		GROUP BY subject_name, subject_cui, object_cui, predicate
		HAVING COUNT(DISTINCT pmid) >= $%d`, s.predicationRel(), blockSQL, thresholdIdx)

	s.logQuery("FetchParents", sql, args)
	return s.queryNames(ctx, sql, args, "FetchParents")
}

// FetchChildren returns (name -> cui) of every CUI with a filtered
// edge out of target: (target -> object).
func (s *PostgresStore) FetchChildren(ctx context.Context, target models.CUI, opts BlanketQueryOptions) (map[string]models.CUI, error) {
	args := []any{opts.Predicates, excludedSemanticTypes(), target}
	blockSQL, blockArgs := s.blockClause(len(args)+1, opts.Blocklist)
	args = append(args, blockArgs...)
	thresholdIdx := len(args) + 1
	args = append(args, opts.MinPMIDs)

	sql := fmt.Sprintf(`
		SELECT object_name, object_cui
		FROM %s
		WHERE predicate = ANY($1)
		  AND subject_semtype != ALL($2)
		  AND object_semtype != ALL($2)
		  AND subject_cui = $3%s
		GROUP BY object_name, object_cui, subject_cui, predicate
		HAVING COUNT(DISTINCT pmid) >= $%d`, s.predicationRel(), blockSQL, thresholdIdx)

	s.logQuery("FetchChildren", sql, args)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &models.QueryError{Operation: "FetchChildren", Cause: err}
	}
	defer rows.Close()

	out := make(map[string]models.CUI)
	for rows.Next() {
		var name string
		var cui models.CUI
		if err := rows.Scan(&name, &cui); err != nil {
			return nil, &models.QueryError{Operation: "FetchChildren", Cause: err}
		}
		out[name] = cui
	}
	return out, rows.Err()
}

// FetchSpouses returns the distinct surface names of every CUI with a
// filtered edge into one of childrenCUIs, i.e. the "other parents" of
// target's children.
func (s *PostgresStore) FetchSpouses(ctx context.Context, childrenCUIs []models.CUI, opts BlanketQueryOptions) ([]string, error) {
	if len(childrenCUIs) == 0 {
		return nil, nil
	}
	args := []any{opts.Predicates, excludedSemanticTypes(), childrenCUIs}
	blockSQL, blockArgs := s.blockClause(len(args)+1, opts.Blocklist)
	args = append(args, blockArgs...)
	thresholdIdx := len(args) + 1
	args = append(args, opts.MinPMIDs)

	sql := fmt.Sprintf(`
		SELECT DISTINCT subject_name
		FROM %s
		WHERE predicate = ANY($1)
		  AND subject_semtype != ALL($2)
		  AND object_semtype != ALL($2)
		  AND object_cui = ANY($3)%s
		GROUP BY subject_name, subject_cui, object_cui, predicate
		HAVING COUNT(DISTINCT pmid) >= $%d`, s.predicationRel(), blockSQL, thresholdIdx)

	s.logQuery("FetchSpouses", sql, args)
	return s.queryNames(ctx, sql, args, "FetchSpouses")
}

func (s *PostgresStore) queryNames(ctx context.Context, sql string, args []any, op string) ([]string, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &models.QueryError{Operation: op, Cause: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &models.QueryError{Operation: op, Cause: err}
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
