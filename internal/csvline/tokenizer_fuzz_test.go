package csvline

import "testing"

func FuzzTokenize(f *testing.F) {
	seeds := []string{
		"1,John,Doe,john@x.com,555-123-4567,Austin,TX,78701,2023-05-01",
		`1,"a,b",c`,
		`"""",x`,
		`"unterminated`,
		",,,,,,,,",
		",,,,,,,,,",
		"1,John,Doe,john@x.co,555-123-4567,Reno,NV,89501,",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, line string) {
		fields, err := Tokenize(line, 9)
		if err != nil {
			return
		}
		if len(fields) != 9 {
			t.Fatalf("got %d fields without error", len(fields))
		}
		for _, fld := range fields {
			if Trim(fld) != fld {
				t.Fatalf("field %q not trimmed", fld)
			}
		}
	})
}
