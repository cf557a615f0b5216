package elements

import "testing"

func TestIntegerCoercion(t *testing.T) {
	if n, ok := Integer("12"); !ok || n != 12 {
		t.Fatalf("Integer(12) = %d, %v", n, ok)
	}
	if _, ok := Integer(""); ok {
		t.Fatal("empty element must coerce to absent, not zero")
	}
	if _, ok := Integer("abc"); ok {
		t.Fatal("malformed integer must report ok=false")
	}
}

func TestDecimalPreservesText(t *testing.T) {
	if got := Decimal("80.50"); got != "80.50" {
		t.Fatalf("expected textual precision preserved, got %q", got)
	}
	if got := Decimal(""); got != "" {
		t.Fatalf("expected empty for blank amount, got %q", got)
	}
}

func TestLookupPassesUnknownCodesThrough(t *testing.T) {
	if got := Lookup(ContactFunctionCodes, "BL"); got != "billing contact" {
		t.Fatalf("known code mis-resolved: %q", got)
	}
	if got := Lookup(ContactFunctionCodes, "Z9"); got != "Z9" {
		t.Fatalf("unknown code must pass through, got %q", got)
	}
}

func TestClaimStatus(t *testing.T) {
	cases := []struct {
		code           string
		classification string
		forwarded      bool
	}{
		{"1", ClassificationPrimary, false},
		{"2", ClassificationSecondary, false},
		{"19", ClassificationPrimary, true},
		{"22", ClassificationUnknown, false},
		{"99", ClassificationUnknown, false},
	}
	for _, tc := range cases {
		classification, forwarded := ClaimStatus(tc.code)
		if classification != tc.classification || forwarded != tc.forwarded {
			t.Fatalf("ClaimStatus(%s) = %s, %v; want %s, %v",
				tc.code, classification, forwarded, tc.classification, tc.forwarded)
		}
	}
}

func TestEntityType(t *testing.T) {
	if got := EntityType("PR"); got != EntityPayer {
		t.Fatalf("EntityType(PR) = %q", got)
	}
	if got := EntityType("ZZ"); got != "" {
		t.Fatalf("unmapped entity code must resolve to empty, got %q", got)
	}
}

func TestDate(t *testing.T) {
	parsed, ok := Date("20191216")
	if !ok {
		t.Fatal("expected CCYYMMDD to parse")
	}
	if parsed.Year() != 2019 || int(parsed.Month()) != 12 || parsed.Day() != 16 {
		t.Fatalf("unexpected date: %v", parsed)
	}
	if _, ok := Date(""); ok {
		t.Fatal("blank date must be absent")
	}
}
