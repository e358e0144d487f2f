package message

import "testing"

func strEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestParseAddressListSimple(t *testing.T) {
	// S1: simple address.
	reg := NewCharsetRegistry(nil)
	cfg := DefaultConfig()
	got := ParseAddressList(reg, cfg, "John Doe <jdoe@machine.example>")

	if got.IsGroups {
		t.Fatalf("expected a flat address list, got groups: %+v", got)
	}
	if len(got.Addresses) != 1 {
		t.Fatalf("got %d addresses, want 1: %+v", len(got.Addresses), got)
	}
	a := got.Addresses[0]
	if !strEq(a.Name, strPtr("John Doe")) {
		t.Fatalf("name = %v, want John Doe", a.Name)
	}
	if !strEq(a.Address, strPtr("jdoe@machine.example")) {
		t.Fatalf("address = %v, want jdoe@machine.example", a.Address)
	}
}

func TestParseAddressListGroupWithMalformedNameAndTrailingComment(t *testing.T) {
	// S2: group with a comment embedded before the group colon, and a
	// trailing anonymous comment after the group closes.
	reg := NewCharsetRegistry(nil)
	cfg := DefaultConfig()
	in := "A Group(Some people) :Chris Jones <c@(Chris's host.)public.example>, " +
		"joe@example.org, John <jdoe@one.test> (my dear friend); (the end of the group)"
	got := ParseAddressList(reg, cfg, in)

	if !got.IsGroups {
		t.Fatalf("expected groups, got flat list: %+v", got)
	}
	if len(got.Groups) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(got.Groups), got)
	}

	g0 := got.Groups[0]
	if !strEq(g0.Name, strPtr("A Group (Some people)")) {
		t.Fatalf("group 0 name = %v", g0.Name)
	}
	if len(g0.Addresses) != 3 {
		t.Fatalf("group 0 has %d addresses, want 3: %+v", len(g0.Addresses), g0.Addresses)
	}
	if !strEq(g0.Addresses[0].Name, strPtr("Chris Jones (Chris's host.)")) {
		t.Fatalf("addr 0 name = %v", g0.Addresses[0].Name)
	}
	if !strEq(g0.Addresses[0].Address, strPtr("c@public.example")) {
		t.Fatalf("addr 0 address = %v", g0.Addresses[0].Address)
	}
	if g0.Addresses[1].Name != nil {
		t.Fatalf("addr 1 name = %v, want nil", g0.Addresses[1].Name)
	}
	if !strEq(g0.Addresses[1].Address, strPtr("joe@example.org")) {
		t.Fatalf("addr 1 address = %v", g0.Addresses[1].Address)
	}
	if !strEq(g0.Addresses[2].Name, strPtr("John (my dear friend)")) {
		t.Fatalf("addr 2 name = %v", g0.Addresses[2].Name)
	}
	if !strEq(g0.Addresses[2].Address, strPtr("jdoe@one.test")) {
		t.Fatalf("addr 2 address = %v", g0.Addresses[2].Address)
	}

	g1 := got.Groups[1]
	if g1.Name != nil {
		t.Fatalf("group 1 name = %v, want nil", g1.Name)
	}
	if len(g1.Addresses) != 1 {
		t.Fatalf("group 1 has %d addresses, want 1: %+v", len(g1.Addresses), g1.Addresses)
	}
	if !strEq(g1.Addresses[0].Name, strPtr("the end of the group")) {
		t.Fatalf("group 1 addr name = %v", g1.Addresses[0].Name)
	}
	if g1.Addresses[0].Address != nil {
		t.Fatalf("group 1 addr address = %v, want nil", g1.Addresses[0].Address)
	}
}

func TestParseAddressListEncodedWordAdjacency(t *testing.T) {
	// S3: whitespace between adjacent encoded-words is dropped.
	reg := NewCharsetRegistry(nil)
	cfg := DefaultConfig()
	got := ParseAddressList(reg, cfg, "=?ISO-8859-1?Q?a?= =?ISO-8859-1?Q?b?= <test@test.com>")

	if got.IsGroups || len(got.Addresses) != 1 {
		t.Fatalf("got %+v", got)
	}
	a := got.Addresses[0]
	if !strEq(a.Name, strPtr("ab")) {
		t.Fatalf("name = %v, want ab", a.Name)
	}
	if !strEq(a.Address, strPtr("test@test.com")) {
		t.Fatalf("address = %v, want test@test.com", a.Address)
	}
}

func TestParseAddressListQuotedAddrSpecDuplicatesNameAndAddress(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	cfg := DefaultConfig()
	got := ParseAddressList(reg, cfg, `"jdoe@example.com"`)
	if len(got.Addresses) != 1 {
		t.Fatalf("got %+v", got)
	}
	a := got.Addresses[0]
	if !strEq(a.Name, strPtr("jdoe@example.com")) || !strEq(a.Address, strPtr("jdoe@example.com")) {
		t.Fatalf("got %+v", a)
	}
}

func TestParseAddressListMultipleFlat(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	cfg := DefaultConfig()
	got := ParseAddressList(reg, cfg, "a@example.com, b@example.com")
	if got.IsGroups || len(got.Addresses) != 2 {
		t.Fatalf("got %+v", got)
	}
	if !strEq(got.Addresses[0].Address, strPtr("a@example.com")) {
		t.Fatalf("got %+v", got.Addresses[0])
	}
	if !strEq(got.Addresses[1].Address, strPtr("b@example.com")) {
		t.Fatalf("got %+v", got.Addresses[1])
	}
}

func TestLooksLikeAddrSpec(t *testing.T) {
	cases := map[string]bool{
		"a@b":       true,
		"a@b.com":   true,
		"a b@c":     false,
		"noat":      false,
		"a@b@c":     false,
		"":          false,
		"@b":        false,
		"a@":        false,
	}
	for in, want := range cases {
		if got := looksLikeAddrSpec(in); got != want {
			t.Errorf("looksLikeAddrSpec(%q) = %v, want %v", in, got, want)
		}
	}
}
