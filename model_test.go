package fatturex

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	dec "github.com/shopspring/decimal"
)

func TestSetAndUpdate(t *testing.T) {
	m := testPerson.MustNew()
	if err := m.Set("age", "30"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := m.Int("age"); got != 30 {
		t.Errorf("age = %d", got)
	}
	if err := m.Set("age", "x"); err == nil || err.Error() != "Person.age: 'x' cannot be converted to an integer" {
		t.Errorf("Set error: %v", err)
	}

	if err := m.Update("Alice", V{"balance": 3}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := m.Str("name"); got != "Alice" {
		t.Errorf("name = %q", got)
	}
	if got, _ := m.Dec("balance"); got.Cmp(dec.NewFromInt(3)) != 0 {
		t.Errorf("balance = %v", got)
	}
	if err := m.Update(V{"bogus": 1}); err == nil || err.Error() != `Person has no field "bogus"` {
		t.Errorf("Update error: %v", err)
	}
}

func TestAppend(t *testing.T) {
	team := testTeam.MustNew(V{"name": "Alpha"})
	if err := team.Append("members", testPerson.MustNew("Alice")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	// The padded empty member is no longer trailing, so it stays.
	members := team.SubList("members")
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
	if got := members[1].Str("name"); got != "Alice" {
		t.Errorf("appended name = %q", got)
	}
	// Appended models are copied on the way in.
	p := testPerson.MustNew("Bob")
	if err := team.Append("members", p); err != nil {
		t.Fatalf("Append: %v", err)
	}
	p.MustSet("name", "Mallory")
	if got := team.SubList("members")[2].Str("name"); got != "Bob" {
		t.Errorf("stored member mutated: name = %q", got)
	}

	if err := team.Append("name", "x"); err == nil || err.Error() != "Team.name is not a list field" {
		t.Errorf("Append on scalar: %v", err)
	}
}

func TestGetPathSetPath(t *testing.T) {
	m := testPerson.MustNew(V{"address": V{"street": "Main", "city": "Rome"}})
	if got := m.GetPath("address", "city"); got != "Rome" {
		t.Errorf("GetPath = %v", got)
	}
	if err := m.SetPath("Milan", "address", "city"); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	if got := m.Sub("address").Str("city"); got != "Milan" {
		t.Errorf("city = %q", got)
	}

	m.MustSet("address", nil)
	if got := m.GetPath("address", "city"); got != nil {
		t.Errorf("GetPath over unset = %v", got)
	}
	if err := m.SetPath("Rome", "address", "city"); err == nil || err.Error() != "Person.address is not set" {
		t.Errorf("SetPath over unset: %v", err)
	}
}

func TestHasValue(t *testing.T) {
	m := testPerson.MustNew()
	if m.HasValue() {
		t.Errorf("fresh instance has a value")
	}
	m.MustSet("name", "Alice")
	if !m.HasValue() {
		t.Errorf("named instance has no value")
	}

	// A set value anywhere in a nested instance counts.
	m = testPerson.MustNew()
	m.Sub("address").MustSet("city", "Rome")
	if !m.HasValue() {
		t.Errorf("nested value not seen")
	}
}

func TestToPlain(t *testing.T) {
	m := testPerson.MustNew("Alice", V{
		"balance": "10.50",
		"address": V{"street": "Main", "city": "Rome"},
		"tags":    []any{"x"},
	})
	want := map[string]any{
		"name":    "Alice",
		"balance": "10.50",
		"address": map[string]any{"street": "Main", "city": "Rome"},
		"tags":    []any{"x"},
	}
	if diff := cmp.Diff(want, m.ToPlain()); diff != "" {
		t.Errorf("ToPlain (-want +got):\n%s", diff)
	}

	back, err := testPerson.FromPlain(m.ToPlain())
	if err != nil {
		t.Fatalf("FromPlain: %v", err)
	}
	if !m.Equals(back) {
		t.Errorf("plain round trip lost data")
	}
}

func buildTestTeam(t *testing.T) *Model {
	t.Helper()
	return testTeam.MustNew("Alpha", []any{
		testPerson.MustNew("Alice", 30, V{
			"balance": "10.50",
			"address": V{"street": "Main", "city": "Rome", "zip": "00184"},
			"tags":    []any{"lead", "oncall"},
		}),
		testPerson.MustNew("Bob"),
	})
}

func TestXMLRoundTrip(t *testing.T) {
	team := buildTestTeam(t)

	b := NewBuilder()
	if err := team.AppendXML(b); err != nil {
		t.Fatalf("AppendXML: %v", err)
	}
	xml, err := b.Document().WriteToString()
	if err != nil {
		t.Fatalf("WriteToString: %v", err)
	}
	for _, want := range []string{
		"<Team><Name>Alpha</Name><Person>",
		"<Balance>10.50</Balance>",
		"<Tags>lead</Tags><Tags>oncall</Tags>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("serialized XML misses %q:\n%s", want, xml)
		}
	}

	tree := etree.NewDocument()
	if err := tree.ReadFromString(xml); err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}
	back, err := testTeam.FromXML(tree.Root())
	if err != nil {
		t.Fatalf("FromXML: %v", err)
	}
	if !team.Equals(back) {
		t.Errorf("XML round trip lost data")
	}
}

func TestFromXMLClosedWorld(t *testing.T) {
	parse := func(s string) *etree.Element {
		tree := etree.NewDocument()
		if err := tree.ReadFromString(s); err != nil {
			t.Fatalf("ReadFromString: %v", err)
		}
		return tree.Root()
	}

	_, err := testTeam.FromXML(parse("<Team><Name>A</Name><Bogus/></Team>"))
	if err == nil || err.Error() != "found unexpected element Bogus in Team" {
		t.Errorf("unexpected element: %v", err)
	}

	_, err = testTeam.FromXML(parse("<Team><Name>A</Name><Name>B</Name></Team>"))
	if err == nil || err.Error() != "found 2 Name elements in Team instead of just 1" {
		t.Errorf("duplicate singular: %v", err)
	}
}

func TestEquality(t *testing.T) {
	// An instance with nothing set compares equal to nil.
	empty := testPerson.MustNew()
	if c, err := empty.Cmp(nil); err != nil || c != 0 {
		t.Errorf("empty vs nil = %d, %v", c, err)
	}
	if !empty.Equals(nil) {
		t.Errorf("empty does not equal nil")
	}

	a := testPerson.MustNew("Alice")
	if a.Equals(nil) {
		t.Errorf("set instance equals nil")
	}
	// The other side is coerced, so maps compare too.
	if !a.Equals(map[string]any{"name": "Alice"}) {
		t.Errorf("map coercion not equal")
	}
	if c, err := a.Cmp(testPerson.MustNew("Bob")); err != nil || c >= 0 {
		t.Errorf("Alice vs Bob = %d, %v", c, err)
	}
	if _, err := a.Cmp(42); err == nil {
		t.Errorf("Cmp(42) did not fail")
	}
	if a.Equals(42) {
		t.Errorf("Equals(42) is true")
	}
}

func TestModelString(t *testing.T) {
	m := testAddress.MustNew("Main", "Rome")
	if got := m.String(); got != "Address(street=Main, city=Rome, zip=nil)" {
		t.Errorf("String = %q", got)
	}
}

func TestValidateNestedPaths(t *testing.T) {
	team := testTeam.MustNew("Alpha", []any{
		testPerson.MustNew(V{"address": V{"street": "Main", "city": "Rome", "zip": "123"}}),
	})
	want := []string{
		"members.0.name: missing value",
		"members.0.address.zip: '123' should be at least 5 characters long",
	}
	if diff := cmp.Diff(want, team.Validate().Strings()); diff != "" {
		t.Errorf("findings (-want +got):\n%s", diff)
	}
}
