package ifd

import "bytes"

// PackASCII concatenates a set of strings into one NUL-terminated
// payload, per spec.md §4.D and S4 in §8: each string, including the
// last, gets a trailing NUL. Grounded on garyhouston-tiff66's
// Field.PutASCII (single-string case) generalized to N strings the
// way S4's ImageDescription = ["left", "right"] example requires.
func PackASCII(strs []string) []byte {
	var buf bytes.Buffer
	for _, s := range strs {
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// UnpackASCII splits a NUL-terminated-strings payload back into its
// component strings, terminators stripped. A missing final NUL is
// tolerated (spec.md §4.E: "for ASCII, tolerate missing final NUL"),
// matching garyhouston-tiff66's Field.ASCII leniency.
func UnpackASCII(payload []byte) []string {
	if len(payload) == 0 {
		return nil
	}
	var out []string
	start := 0
	for i, b := range payload {
		if b == 0 {
			out = append(out, string(payload[start:i]))
			start = i + 1
		}
	}
	if start < len(payload) {
		out = append(out, string(payload[start:]))
	}
	return out
}
