package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// singleLineThreshold is the largest element count at which a string
// array is rendered on one line by the standard pretty-printer.
// pmid_refs arrays ignore this threshold and are always single-line
// (see writeAssertions).
const singleLineThreshold = 10

// writeStringArray renders a []string either inline (len <= threshold,
// or forceInline) or one element per line, the dossier's custom
// line-folding rule.
func writeStringArray(buf *bytes.Buffer, indent string, items []string, forceInline bool) {
	if len(items) == 0 {
		buf.WriteString("[]")
		return
	}
	if forceInline || len(items) <= singleLineThreshold {
		inline, _ := json.Marshal(items)
		buf.Write(inline)
		return
	}
	buf.WriteString("[\n")
	for i, it := range items {
		encoded, _ := json.Marshal(it)
		buf.WriteString(indent + "  ")
		buf.Write(encoded)
		if i < len(items)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString(indent + "]")
}

func jsonString(s string) string {
	encoded, _ := json.Marshal(s)
	return string(encoded)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writePMIDSentences(buf *bytes.Buffer, pmidSentences map[string][]string) {
	buf.WriteString("  \"pmid_sentences\": {")
	keys := sortedKeys(pmidSentences)
	if len(keys) == 0 {
		buf.WriteString("},\n")
		return
	}
	buf.WriteString("\n")
	for i, pmid := range keys {
		buf.WriteString("    " + jsonString(pmid) + ": ")
		writeStringArray(buf, "    ", pmidSentences[pmid], false)
		if i < len(keys)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("  },\n")
}

func writeAssertions(buf *bytes.Buffer, assertions []assertionJSON) {
	buf.WriteString("  \"assertions\": [")
	if len(assertions) == 0 {
		buf.WriteString("]\n")
		return
	}
	buf.WriteString("\n")
	for i, a := range assertions {
		buf.WriteString("    {\n")
		buf.WriteString(fmt.Sprintf("      \"subj\": %s,\n", jsonString(a.Subject)))
		buf.WriteString(fmt.Sprintf("      \"subj_cui\": %s,\n", jsonString(a.SubjectCUI)))
		buf.WriteString(fmt.Sprintf("      \"predicate\": %s,\n", jsonString(a.Predicate)))
		buf.WriteString(fmt.Sprintf("      \"obj\": %s,\n", jsonString(a.Object)))
		buf.WriteString(fmt.Sprintf("      \"obj_cui\": %s,\n", jsonString(a.ObjectCUI)))
		buf.WriteString(fmt.Sprintf("      \"ev_count\": %d,\n", a.EvidenceCount))
		buf.WriteString("      \"pmid_refs\": ")
		writeStringArray(buf, "      ", a.PMIDRefs, true)
		buf.WriteString("\n    }")
		if i < len(assertions)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("  ]\n")
}

type assertionJSON struct {
	Subject       string
	SubjectCUI    string
	Predicate     string
	Object        string
	ObjectCUI     string
	EvidenceCount int
	PMIDRefs      []string
}
