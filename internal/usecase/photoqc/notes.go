package photoqc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
)

// Notes renders the audit text stored in qc_notes. Equal verdicts render equal notes.
func Notes(v entity.Verdict) string {
	var sb strings.Builder

	quality, err := json.Marshal(v.Quality)
	if err != nil {
		quality = []byte(fmt.Sprintf("%+v", v.Quality))
	}

	sb.WriteString("QC results: ")
	sb.Write(quality)
	sb.WriteString("; recommendation: ")
	sb.WriteString(string(v.Recommendation))

	writeList(&sb, "issues", v.Issues)
	writeList(&sb, "warnings", v.Warnings)
	writeList(&sb, "metadata failures", v.MetadataFailures)

	return sb.String()
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}

	b, err := json.Marshal(items)
	if err != nil {
		b = []byte(fmt.Sprint(items))
	}

	sb.WriteString("; ")
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.Write(b)
}
