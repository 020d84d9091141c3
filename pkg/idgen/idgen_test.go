package idgen

import (
	"regexp"
	"strings"
	"testing"

	"github.com/health-optimised/directory-backend/pkg/enums"
)

func TestTicketCodeFormat(t *testing.T) {
	gen := NewWithSeed(1)
	pattern := regexp.MustCompile(`^RQ-[1-9]\d{3}$`)
	for i := 0; i < 100; i++ {
		code := gen.TicketCode()
		if !pattern.MatchString(code) {
			t.Fatalf("unexpected ticket code %q", code)
		}
	}
}

func TestDeterministicSequences(t *testing.T) {
	a := NewWithSeed(42)
	b := NewWithSeed(42)
	for i := 0; i < 10; i++ {
		if a.TicketCode() != b.TicketCode() {
			t.Fatal("same seed should yield the same ticket sequence")
		}
	}
}

func TestUsernameFormat(t *testing.T) {
	gen := NewWithSeed(7)

	admin := gen.Username(enums.RoleAdmin, "health-optimised.dev")
	if !strings.HasPrefix(admin, "admin-") || !strings.HasSuffix(admin, "@health-optimised.dev") {
		t.Fatalf("unexpected admin username %q", admin)
	}

	user := gen.Username(enums.RoleUser, "health-optimised.dev")
	if !strings.HasPrefix(user, "researcher-") {
		t.Fatalf("unexpected user username %q", user)
	}
	local := strings.SplitN(user, "@", 2)[0]
	if len(strings.TrimPrefix(local, "researcher-")) != 6 {
		t.Fatalf("expected 6-char suffix in %q", user)
	}
}

func TestPasswordFormat(t *testing.T) {
	gen := NewWithSeed(9)
	pattern := regexp.MustCompile(`^HO-[A-Z0-9]{4}[1-9]\d{2}$`)
	for i := 0; i < 50; i++ {
		password := gen.Password()
		if !pattern.MatchString(password) {
			t.Fatalf("unexpected password %q", password)
		}
	}
}

func TestPrefixedIDs(t *testing.T) {
	gen := New()
	if !strings.HasPrefix(gen.SupplierID(), "supplier-") {
		t.Fatal("supplier id prefix missing")
	}
	if !strings.HasPrefix(gen.QueueID(), "queue-") {
		t.Fatal("queue id prefix missing")
	}
	if !strings.HasPrefix(gen.EventID(), "evt-") {
		t.Fatal("event id prefix missing")
	}
	if gen.AnonID() == gen.AnonID() {
		t.Fatal("anon ids should be unique")
	}
}
