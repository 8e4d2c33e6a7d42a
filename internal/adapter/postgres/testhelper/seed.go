package testhelper

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/levi/internal/domain"
)

// Namespace 1000195 is used for every generated extension identifier.
const testNamespace = "1000195"

var itemSeq atomic.Int64

func init() {
	// Separate runs against a reused database must not collide.
	itemSeq.Store(time.Now().UnixNano() % 100_000_000)
}

func nextID(partition string) string {
	return domain.WithCheckDigit(fmt.Sprintf("%d%s%s", itemSeq.Add(1), testNamespace, partition))
}

// NewDescriptionID returns a fresh, valid extension description SCTID.
func NewDescriptionID() string { return nextID("11") }

// NewConceptID returns a fresh, valid extension concept SCTID.
func NewConceptID() string { return nextID("10") }

// NewRefsetID returns a fresh refset id, so tests sharing the database see
// only their own members.
func NewRefsetID() string { return nextID("10") }

// SeedDescription inserts a description row and its language refset member.
// Empty TypeID and ModuleID get synonym and a test module; empty ID gets a
// fresh description id. Returns the stored description.
func SeedDescription(t *testing.T, pool *pgxpool.Pool, refsetID string, d domain.Description) domain.Description {
	t.Helper()
	ctx := context.Background()

	if d.ID == "" {
		d.ID = NewDescriptionID()
	}
	if d.TypeID == "" {
		d.TypeID = domain.TypeSynonym
	}
	if d.ModuleID == "" {
		d.ModuleID = "2011000195101"
	}
	if d.AcceptabilityID == "" {
		d.AcceptabilityID = "900000000000548007"
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO description_s (id, effectivetime, active, moduleid, conceptid, languagecode, typeid, term, casesignificanceid)
		 VALUES ($1, '20240101', $2, $3, $4, $5, $6, $7, '900000000000448009')`,
		d.ID, rf2Flag(d.DescriptionActive), d.ModuleID, d.ConceptID, d.LanguageCode, d.TypeID, d.Term,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDescription insert description: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO langrefset_s (id, effectivetime, active, moduleid, refsetid, referencedcomponentid, acceptabilityid)
		 VALUES ($1, '20240101', $2, $3, $4, $5, $6)`,
		uuid.New(), rf2Flag(d.MemberActive), d.ModuleID, refsetID, d.ID, d.AcceptabilityID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDescription insert refset member: %v", err)
	}

	return d
}

// RetireMember adds a later, inactive version of every member of refsetID
// that refers to descriptionID, as a new RF2 release would.
func RetireMember(t *testing.T, pool *pgxpool.Pool, refsetID, descriptionID, effectiveTime string) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO langrefset_s (id, effectivetime, active, moduleid, refsetid, referencedcomponentid, acceptabilityid)
		 SELECT DISTINCT ON (id) id, $3, '0', moduleid, refsetid, referencedcomponentid, acceptabilityid
		 FROM langrefset_s WHERE refsetid = $1 AND referencedcomponentid = $2
		 ORDER BY id, effectivetime DESC`,
		refsetID, descriptionID, effectiveTime,
	)
	if err != nil {
		t.Fatalf("testhelper: RetireMember: %v", err)
	}
}

func rf2Flag(active bool) string {
	if active {
		return "1"
	}
	return "0"
}
