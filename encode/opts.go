package encode

type EncodeOption func(*encState)

// EncodeColors turns on colored output using the given palette.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *encState) { es.colors = c }
}

// EncodeFlow renders the whole tree on a single line in flow style.
func EncodeFlow(v bool) EncodeOption {
	return func(es *encState) { es.flow = v }
}

// EncodePlain drops tags and merge markers from the output, leaving only
// values.
func EncodePlain(v bool) EncodeOption {
	return func(es *encState) { es.plain = v }
}
