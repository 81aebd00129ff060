package validate

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.co", true},
		{"john@x.com", true},
		{"first.last+tag@sub-domain.example.org", true},
		{"a@b.c", false},      // shorter than 6
		{"@bc.com", false},    // @ at position 0
		{"ab@c@d.com", false}, // second @
		{"abc@domain", false}, // no dot after @
		{"ab.c@domaincom", false},
		{"abc@domain.", false}, // dot is last
		{"a b@c.com", false},
		{"not-an-email", false},
	}
	for _, tt := range tests {
		if got := Email(tt.in, false); got != tt.want {
			t.Errorf("Email(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"555-123-4567", true},
		{"555-1234-567", false},
		{"5551234567", false},
		{"555-123-456a", false},
		{"555-123-45678", false},
	}
	for _, tt := range tests {
		if got := Phone(tt.in, false); got != tt.want {
			t.Errorf("Phone(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2023-05-01", true},
		{"1900-01-01", true},
		{"2100-12-31", true},
		{"1899-12-31", false},
		{"2101-01-01", false},
		{"2023-02-29", true}, // February allows 29 in every year
		{"2023-02-30", false},
		{"2023-04-31", false},
		{"2023-05-31", true},
		{"2023-13-01", false},
		{"2023-00-10", false},
		{"2023-01-00", false},
		{"2023/01/01", false},
		{"23-01-01", false},
	}
	for _, tt := range tests {
		if got := Date(tt.in, false); got != tt.want {
			t.Errorf("Date(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStateAndZip(t *testing.T) {
	if !State("TX", false) || State("tx", false) || State("TXX", false) {
		t.Fatalf("State mismatch")
	}
	if !Zip("78701", false) || Zip("7870", false) || Zip("7870a", false) || Zip("78701-1234", false) {
		t.Fatalf("Zip mismatch")
	}
}

func TestEmptyPolicy(t *testing.T) {
	checks := map[string]func(string, bool) bool{
		"email": Email, "phone": Phone, "date": Date, "state": State, "zip": Zip,
	}
	for name, fn := range checks {
		if fn("", false) {
			t.Errorf("%s: empty accepted with allowEmpty=false", name)
		}
		if !fn("", true) {
			t.Errorf("%s: empty rejected with allowEmpty=true", name)
		}
	}
}

func TestID(t *testing.T) {
	if ID(0) || ID(-1) || !ID(1) {
		t.Fatalf("ID mismatch")
	}
}
