package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// randomSuffix returns n lowercase hex characters
func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// newUniversityID returns an id of the form custom-<unix millis>-<9 chars>.
// Uniqueness is probabilistic.
func newUniversityID() string {
	return fmt.Sprintf("custom-%d-%s", time.Now().UnixMilli(), randomSuffix(9))
}

func newDepartmentID() string {
	return "d-" + randomSuffix(5)
}

func newProgramID() string {
	return "p-" + randomSuffix(5)
}

// IsCustom reports whether id was generated by an import
func IsCustom(id string) bool {
	return strings.HasPrefix(id, "custom-")
}
