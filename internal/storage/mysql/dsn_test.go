package mysql_test

import (
	"strings"
	"testing"

	mysqlrepo "wanderplan/internal/storage/mysql"
)

func TestNormalizeDSN_ForcesParseTimeUTC(t *testing.T) {
	for _, in := range []string{
		"app:secret@tcp(db:3306)/wanderplan",
		"app:secret@tcp(db:3306)/wanderplan?parseTime=false&loc=Local&charset=utf8mb4",
	} {
		got, err := mysqlrepo.NormalizeDSN(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if !strings.Contains(got, "parseTime=true") {
			t.Fatalf("%s: parseTime missing in %q", in, got)
		}
		if strings.Contains(got, "loc=Local") {
			t.Fatalf("%s: loc not forced to UTC in %q", in, got)
		}
		if !strings.HasPrefix(got, "app:secret@tcp(db:3306)/wanderplan") {
			t.Fatalf("%s: address or database lost in %q", in, got)
		}
	}
}

func TestNormalizeDSN_RejectsMalformed(t *testing.T) {
	if _, err := mysqlrepo.NormalizeDSN("not a dsn"); err == nil {
		t.Fatalf("expected parse error")
	}
}
