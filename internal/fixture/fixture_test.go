package fixture

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestRegistryOrder(t *testing.T) {
	all := All()
	if len(all) != 4 {
		t.Fatalf("expected 4 fixtures, got %d", len(all))
	}
	for i, f := range all {
		if f.ID != ID(i+1) {
			t.Fatalf("fixture at %d has id %d", i, f.ID)
		}
		if !strings.Contains(f.SQL, "XMLTABLE") {
			t.Fatalf("fixture %d does not use XMLTABLE: %s", f.ID, f.SQL)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].SQL = "SELECT 1"
	f, err := Get(NamespacedColumns)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if f.SQL == "SELECT 1" {
		t.Fatalf("registry mutated through All()")
	}
}

func TestGetUnknown(t *testing.T) {
	cases := []ID{0, -1, 5, 42}
	for _, id := range cases {
		_, err := Get(id)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(%d) err=%v, want ErrNotFound", id, err)
		}
	}
}

func TestIDs(t *testing.T) {
	ids := IDs()
	want := []ID{NamespacedColumns, PlainColumns, MultipleNamespaces, DefaultNamespace}
	if len(ids) != len(want) {
		t.Fatalf("unexpected ids: %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids[%d]=%d, want %d", i, ids[i], want[i])
		}
	}
	if Default != 2 {
		t.Fatalf("unexpected default fixture: %d", Default)
	}
}
