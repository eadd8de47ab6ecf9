package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// ExpandHopOptions parameterizes one hop of traversal. Frontier is nil
// for hop 1, in which case ExposureCUIs/OutcomeCUIs supply the hop-1
// admission condition; for hop >= 2, Frontier carries the hop-1 CUI
// set (see internal/expand for why it is always hop-1's, never the
// previous hop's).
type ExpandHopOptions struct {
	Frontier     []models.CUI
	ExposureCUIs []models.CUI
	OutcomeCUIs  []models.CUI
	Predicates   []models.Predicate
	MinPMIDs     int
	Blocklist    []models.CUI
}

func excludedSemanticTypes() []models.SemanticType {
	out := make([]models.SemanticType, 0, len(models.ExcludedSemanticTypes))
	for st := range models.ExcludedSemanticTypes {
		out = append(out, st)
	}
	return out
}

// ExistsEvidence is the Pre-flight Probe (C8): the cheapest form of the
// hop-1 query, asking only for existence of at least one triple
// meeting threshold.
func (s *PostgresStore) ExistsEvidence(ctx context.Context, exposureCUIs, outcomeCUIs []models.CUI, predicates []models.Predicate, minPMIDs int) (bool, error) {
	sql := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM %s
			WHERE predicate = ANY($1)
			  AND subject_semtype != ALL($2)
			  AND object_semtype != ALL($2)
			  AND ((subject_cui = ANY($3) OR object_cui = ANY($3))
			       OR (subject_cui = ANY($4) OR object_cui = ANY($4)))
			GROUP BY subject_cui, object_cui, predicate
			HAVING COUNT(DISTINCT pmid) >= $5
			LIMIT 1
		)`, s.predicationRel())

	args := []any{predicates, excludedSemanticTypes(), exposureCUIs, outcomeCUIs, minPMIDs}
	s.logQuery("ExistsEvidence", sql, args)

	var exists bool
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, &models.QueryError{Operation: "ExistsEvidence", Cause: err}
	}
	return exists, nil
}

// ExpandHop retrieves every assertion admitted at this hop, grouped by
// triple and filtered by COUNT(DISTINCT pmid) >= MinPMIDs, ordered by
// subject name ascending for determinism of downstream artifacts.
func (s *PostgresStore) ExpandHop(ctx context.Context, hop int, opts ExpandHopOptions) ([]models.Assertion, error) {
	var condition string
	args := []any{opts.Predicates, excludedSemanticTypes()}

	if opts.Frontier == nil {
		condition = "((subject_cui = ANY($3) OR object_cui = ANY($3)) OR (subject_cui = ANY($4) OR object_cui = ANY($4)))"
		args = append(args, opts.ExposureCUIs, opts.OutcomeCUIs)
	} else {
		condition = "(subject_cui = ANY($3) OR object_cui = ANY($3))"
		args = append(args, opts.Frontier)
	}

	blocklistClause := ""
	if len(opts.Blocklist) > 0 {
		idx := len(args) + 1
		blocklistClause = fmt.Sprintf(" AND subject_cui != ALL($%d) AND object_cui != ALL($%d)", idx, idx)
		args = append(args, opts.Blocklist)
	}

	thresholdIdx := len(args) + 1
	args = append(args, opts.MinPMIDs)

	sql := fmt.Sprintf(`
		SELECT subject_cui, subject_name, subject_semtype,
		       object_cui, object_name, object_semtype,
		       predicate,
		       STRING_AGG(DISTINCT pmid::text, ',') AS pmids,
		       STRING_AGG(DISTINCT CONCAT(pmid::text, ':', sentence_id::text), ',') AS sentence_refs
		FROM %s
		WHERE predicate = ANY($1)
		  AND subject_semtype != ALL($2)
		  AND object_semtype != ALL($2)
		  AND %s%s
		GROUP BY subject_cui, subject_name, subject_semtype, object_cui, object_name, object_semtype, predicate
		HAVING COUNT(DISTINCT pmid) >= $%d
		ORDER BY subject_name ASC`, s.predicationRel(), condition, blocklistClause, thresholdIdx)

	s.logQuery(fmt.Sprintf("ExpandHop(hop=%d)", hop), sql, args)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &models.QueryError{Operation: "ExpandHop", Hop: hop, Cause: err}
	}
	defer rows.Close()

	var out []models.Assertion
	for rows.Next() {
		var a models.Assertion
		var pmidsCSV, refsCSV string
		if err := rows.Scan(&a.SubjectCUI, &a.SubjectName, &a.SubjectSemType,
			&a.ObjectCUI, &a.ObjectName, &a.ObjectSemType, &a.Predicate,
			&pmidsCSV, &refsCSV); err != nil {
			return nil, &models.QueryError{Operation: "ExpandHop", Hop: hop, Cause: err}
		}
		a.PMIDs = splitCSV(pmidsCSV)
		a.EvidenceCount = len(a.PMIDs)
		a.SentenceRefs = parseSentenceRefs(refsCSV)
		a.HopLevel = hop
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.QueryError{Operation: "ExpandHop", Hop: hop, Cause: err}
	}
	return out, nil
}

// FetchSentences batch-retrieves sentence text for the given refs,
// deduplicating text per pmid.
func (s *PostgresStore) FetchSentences(ctx context.Context, refs []models.SentenceRef) (map[string][]string, error) {
	result := make(map[string][]string)
	if len(refs) == 0 {
		return result, nil
	}

	pmids := make([]string, len(refs))
	sentIDs := make([]string, len(refs))
	for i, r := range refs {
		pmids[i] = r.PMID
		sentIDs[i] = r.SentenceID
	}

	sql := fmt.Sprintf(`
		SELECT pmid, sentence_id, sentence
		FROM %s
		WHERE (pmid, sentence_id) = ANY (SELECT UNNEST($1::text[]), UNNEST($2::text[]))`, s.sentenceRel())

	args := []any{pmids, sentIDs}
	s.logQuery("FetchSentences", sql, args)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &models.PartialFetchWarning{Operation: "FetchSentences", Missing: len(refs), Cause: err}
	}
	defer rows.Close()

	seen := make(map[string]map[string]bool)
	for rows.Next() {
		var pmid, sentenceID, text string
		if err := rows.Scan(&pmid, &sentenceID, &text); err != nil {
			continue
		}
		if seen[pmid] == nil {
			seen[pmid] = make(map[string]bool)
		}
		if seen[pmid][text] {
			continue
		}
		seen[pmid][text] = true
		result[pmid] = append(result[pmid], text)
	}
	return result, rows.Err()
}

// FetchCanonicalNames recovers one surface name per CUI from the
// sentence store. It is the fallback source of a display name for
// CUIs that never appear as subject or object of a retained
// assertion (isolated exposure/outcome CUIs) — the primary source of
// a canonical name remains the most-frequent-name count the
// Consolidation Mapper runs over the retained assertion set.
func (s *PostgresStore) FetchCanonicalNames(ctx context.Context, cuis []models.CUI) (map[models.CUI]string, error) {
	result := make(map[models.CUI]string)
	if len(cuis) == 0 {
		return result, nil
	}

	sql := fmt.Sprintf(`SELECT DISTINCT cui, name FROM %s WHERE cui = ANY($1)`, s.sentenceRel())
	args := []any{cuis}
	s.logQuery("FetchCanonicalNames", sql, args)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &models.PartialFetchWarning{Operation: "FetchCanonicalNames", Missing: len(cuis), Cause: err}
	}
	defer rows.Close()

	for rows.Next() {
		var cui models.CUI
		var name string
		if err := rows.Scan(&cui, &name); err != nil {
			continue
		}
		if _, ok := result[cui]; !ok {
			result[cui] = name
		}
	}
	return result, rows.Err()
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func parseSentenceRefs(s string) []models.SentenceRef {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]models.SentenceRef, 0, len(parts))
	for _, p := range parts {
		pair := strings.SplitN(p, ":", 2)
		if len(pair) != 2 {
			continue
		}
		out = append(out, models.SentenceRef{PMID: pair[0], SentenceID: pair[1]})
	}
	return out
}
