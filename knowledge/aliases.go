package knowledge

// Aliases maps domain abbreviations to their spelled-out expansion terms.
// Keys are lowercase; lookup is case-insensitive and ignores trailing
// punctuation on query words.
func Aliases() map[string][]string {
	out := make(map[string][]string, len(aliases))
	for k, v := range aliases {
		out[k] = append([]string(nil), v...)
	}
	return out
}

var aliases = map[string][]string{
	"gfk":  {"gewaltfreie kommunikation"},
	"nvc":  {"gewaltfreie kommunikation", "nonviolent communication"},
	"kvt":  {"kognitive verhaltenstherapie", "kognitive verzerrung"},
	"svt":  {"schulz von thun", "vier seiten modell"},
	"4sm":  {"vier seiten modell"},
	"wwsd": {"wahrnehmung wirkung schlussfolgerung"},
}
