package domain

// SNOMED CT identifiers carry a Verhoeff check digit in the last position and
// a two-digit partition identifier before it.

var verhoeffD = [10][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
	{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
	{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
	{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
	{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
	{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
	{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
	{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
	{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
}

var verhoeffP = [8][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
	{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
	{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
	{9, 4, 5, 3, 1, 2, 8, 7, 6, 0},
	{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
	{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
	{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
}

// IsValidSCTID reports whether s is a well-formed SNOMED CT identifier:
// 6 to 18 decimal digits, no leading zero, valid Verhoeff check digit.
func IsValidSCTID(s string) bool {
	if len(s) < 6 || len(s) > 18 || s[0] == '0' {
		return false
	}
	c := 0
	for i := 0; i < len(s); i++ {
		ch := s[len(s)-1-i]
		if ch < '0' || ch > '9' {
			return false
		}
		c = verhoeffD[c][verhoeffP[i%8][ch-'0']]
	}
	return c == 0
}

// Partition returns the partition identifier of a valid SCTID, or "".
func Partition(s string) string {
	if !IsValidSCTID(s) {
		return ""
	}
	return s[len(s)-3 : len(s)-1]
}

// IsDescriptionID reports whether s is a valid SCTID in a description
// partition (core "01" or extension "11").
func IsDescriptionID(s string) bool {
	switch Partition(s) {
	case "01", "11":
		return true
	}
	return false
}

// IsConceptID reports whether s is a valid SCTID in a concept partition
// (core "00" or extension "10").
func IsConceptID(s string) bool {
	switch Partition(s) {
	case "00", "10":
		return true
	}
	return false
}

var verhoeffInv = [10]int{0, 4, 3, 2, 1, 5, 6, 7, 8, 9}

// WithCheckDigit appends the Verhoeff check digit to a digit-only payload
// (item identifier, optional namespace, partition).
func WithCheckDigit(payload string) string {
	c := 0
	for i := 0; i < len(payload); i++ {
		ch := payload[len(payload)-1-i]
		c = verhoeffD[c][verhoeffP[(i+1)%8][ch-'0']]
	}
	return payload + string(rune('0'+verhoeffInv[c]))
}
