// Package idgen is the single id/ticket/credential generation capability.
// Randomness is deliberately non-cryptographic; the generator exists so the
// random source can be swapped for a deterministic one in tests.
package idgen

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/health-optimised/directory-backend/pkg/enums"
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

type Generator struct {
	mu   sync.Mutex
	rand *rand.Rand
}

func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed builds a generator with a deterministic random sequence.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rand: rand.New(rand.NewSource(seed))}
}

func (g *Generator) SupplierID() string {
	return "supplier-" + uuid.NewString()
}

func (g *Generator) QueueID() string {
	return "queue-" + uuid.NewString()
}

func (g *Generator) EventID() string {
	return "evt-" + uuid.NewString()
}

func (g *Generator) AnonID() string {
	return uuid.NewString()
}

// TicketCode draws a ticket from the RQ-1000..RQ-9999 range. Collisions are
// possible; the queue tolerates them.
func (g *Generator) TicketCode() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("RQ-%d", 1000+g.rand.Intn(9000))
}

// Username produces a rotated login of the form
// <admin|researcher>-<6 chars>@<domain>.
func (g *Generator) Username(role enums.Role, domain string) string {
	base := "researcher"
	if role == enums.RoleAdmin {
		base = "admin"
	}
	return fmt.Sprintf("%s-%s@%s", base, g.randomString(6, suffixAlphabet), domain)
}

// Password produces a rotated password of the form HO-<4 upper alnum><3 digits>.
func (g *Generator) Password() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var sb strings.Builder
	sb.WriteString("HO-")
	for i := 0; i < 4; i++ {
		sb.WriteByte(strings.ToUpper(suffixAlphabet)[g.rand.Intn(len(suffixAlphabet))])
	}
	sb.WriteString(fmt.Sprintf("%d", 100+g.rand.Intn(900)))
	return sb.String()
}

func (g *Generator) randomString(n int, alphabet string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[g.rand.Intn(len(alphabet))])
	}
	return sb.String()
}
