package knowledge

import (
	"github.com/poiesic/klartext/core"
)

// Chunks returns the curated knowledge base. The slice and its chunks are
// freshly allocated per call so callers cannot mutate the canonical corpus.
func Chunks() []*core.KnowledgeChunk {
	out := make([]*core.KnowledgeChunk, len(corpus))
	for i, c := range corpus {
		chunk := c
		chunk.Keywords = append([]string(nil), c.Keywords...)
		out[i] = &chunk
	}
	return out
}

// Count returns the number of chunks in the curated corpus. The semantic
// artifact must carry exactly this many entries.
func Count() int {
	return len(corpus)
}

var corpus = []core.KnowledgeChunk{
	{
		Id:       "gfk-grundlagen",
		Category: core.CategoryGFK,
		Title:    "Gewaltfreie Kommunikation: Grundlagen",
		Content: "Gewaltfreie Kommunikation (GFK) nach Marshall Rosenberg ist ein " +
			"Kommunikationsmodell mit vier Schritten: Beobachtung, Gefühl, Bedürfnis und " +
			"Bitte. Statt zu bewerten oder zu urteilen, beschreibt man zunächst konkret, " +
			"was man wahrnimmt, benennt das eigene Gefühl, verbindet es mit einem " +
			"Bedürfnis und formuliert eine erfüllbare Bitte.",
		Keywords: []string{"gewaltfreie kommunikation", "rosenberg", "beobachtung", "gefühl", "bedürfnis", "bitte"},
	},
	{
		Id:       "gfk-beobachtung",
		Category: core.CategoryGFK,
		Title:    "Beobachtung statt Bewertung",
		Content: "Der erste Schritt der GFK trennt Beobachtung von Bewertung. Eine " +
			"Beobachtung beschreibt, was eine Kamera aufzeichnen könnte: \"Du bist heute " +
			"zwanzig Minuten nach der vereinbarten Zeit gekommen\" statt \"Du bist immer " +
			"unzuverlässig\". Bewertungen lösen beim Gegenüber Widerstand aus, " +
			"Beobachtungen öffnen das Gespräch.",
		Keywords: []string{"beobachtung", "bewertung", "urteil", "wahrnehmung"},
	},
	{
		Id:       "gfk-gefuehle",
		Category: core.CategoryGFK,
		Title:    "Gefühle und Pseudogefühle",
		Content: "Echte Gefühle wie Trauer, Freude, Angst oder Ärger beschreiben einen " +
			"inneren Zustand. Pseudogefühle wie \"ignoriert\", \"übergangen\" oder " +
			"\"ausgenutzt\" enthalten dagegen eine versteckte Interpretation des " +
			"Verhaltens anderer. Die GFK empfiehlt, hinter dem Pseudogefühl das echte " +
			"Gefühl und das unerfüllte Bedürfnis zu suchen.",
		Keywords: []string{"gefühl", "pseudogefühl", "interpretation", "ärger", "trauer"},
	},
	{
		Id:       "gfk-beduerfnisse",
		Category: core.CategoryGFK,
		Title:    "Bedürfnisse als Wurzel der Gefühle",
		Content: "In der GFK sind Gefühle Signale für erfüllte oder unerfüllte " +
			"Bedürfnisse. Bedürfnisse sind universell: Sicherheit, Verbindung, Autonomie, " +
			"Anerkennung, Ruhe. Strategien zur Erfüllung sind dagegen individuell. " +
			"Konflikte entstehen fast nie auf der Ebene der Bedürfnisse, sondern auf der " +
			"Ebene der Strategien.",
		Keywords: []string{"bedürfnis", "strategie", "autonomie", "verbindung", "anerkennung"},
	},
	{
		Id:       "gfk-bitte",
		Category: core.CategoryGFK,
		Title:    "Bitten statt Forderungen",
		Content: "Eine Bitte in der GFK ist konkret, positiv formuliert und im Hier und " +
			"Jetzt erfüllbar. Sie unterscheidet sich von einer Forderung dadurch, dass ein " +
			"Nein akzeptiert wird, ohne zu bestrafen. \"Wärst du bereit, mir bis Freitag " +
			"eine Rückmeldung zu geben?\" ist eine Bitte, \"Du musst mir endlich " +
			"antworten\" eine Forderung.",
		Keywords: []string{"bitte", "forderung", "nein", "erfüllbar"},
	},
	{
		Id:       "verzerrung-ueberblick",
		Category: core.CategoryDistortion,
		Title:    "Kognitive Verzerrungen: Überblick",
		Content: "Kognitive Verzerrungen sind systematische Denkmuster, die die " +
			"Wahrnehmung verzerren: Schwarz-Weiß-Denken, Katastrophisieren, " +
			"Gedankenlesen, Verallgemeinerung und Personalisierung. Sie laufen " +
			"automatisch ab und verstärken belastende Gefühle. Der erste Schritt zur " +
			"Veränderung ist, das Muster im eigenen Denken zu erkennen und zu benennen.",
		Keywords: []string{"kognitive verzerrung", "denkmuster", "denkfehler", "wahrnehmung"},
	},
	{
		Id:       "verzerrung-schwarzweiss",
		Category: core.CategoryDistortion,
		Title:    "Schwarz-Weiß-Denken",
		Content: "Beim Schwarz-Weiß-Denken (Alles-oder-Nichts-Denken) gibt es nur zwei " +
			"Kategorien: perfekt oder wertlos, immer oder nie. Sätze mit \"immer\", " +
			"\"nie\" oder \"alle\" sind typische Signale. Ein hilfreicher Gegenimpuls ist " +
			"die Frage nach Graustufen: Was läge zwischen den beiden Extremen?",
		Keywords: []string{"schwarz-weiß-denken", "alles oder nichts", "immer", "nie", "extreme"},
	},
	{
		Id:       "verzerrung-katastrophisieren",
		Category: core.CategoryDistortion,
		Title:    "Katastrophisieren",
		Content: "Katastrophisieren bedeutet, vom schlimmsten denkbaren Ausgang " +
			"auszugehen und seine Wahrscheinlichkeit zu überschätzen. Hilfreiche " +
			"Gegenfragen: Wie wahrscheinlich ist das wirklich? Was wäre der " +
			"realistischste Ausgang? Was könnte ich tun, wenn der schlimmste Fall " +
			"tatsächlich einträte?",
		Keywords: []string{"katastrophisieren", "worst case", "angst", "wahrscheinlichkeit"},
	},
	{
		Id:       "verzerrung-gedankenlesen",
		Category: core.CategoryDistortion,
		Title:    "Gedankenlesen",
		Content: "Gedankenlesen ist die Annahme, ohne Nachfrage zu wissen, was andere " +
			"denken oder fühlen: \"Die hält mich sicher für inkompetent.\" Die " +
			"Verzerrung lässt sich auflösen, indem man die Annahme als Hypothese " +
			"behandelt und sie direkt überprüft, statt auf ihrer Grundlage zu handeln.",
		Keywords: []string{"gedankenlesen", "annahme", "hypothese", "unterstellung"},
	},
	{
		Id:       "vier-seiten-modell",
		Category: core.CategoryFourSides,
		Title:    "Das Vier-Seiten-Modell",
		Content: "Nach Schulz von Thun hat jede Nachricht vier Seiten: Sachinhalt " +
			"(worüber ich informiere), Selbstoffenbarung (was ich von mir zeige), " +
			"Beziehung (was ich von dir halte) und Appell (wozu ich dich veranlassen " +
			"möchte). Sender und Empfänger gewichten diese Seiten oft unterschiedlich, " +
			"was Missverständnisse erzeugt.",
		Keywords: []string{"vier seiten", "schulz von thun", "sachinhalt", "appell", "beziehung", "selbstoffenbarung"},
	},
	{
		Id:       "vier-ohren",
		Category: core.CategoryFourSides,
		Title:    "Mit welchem Ohr höre ich?",
		Content: "Das Vier-Ohren-Modell beschreibt, dass Empfänger eine Nachricht " +
			"bevorzugt mit einem der vier Ohren hören. Wer überwiegend mit dem " +
			"Beziehungsohr hört, nimmt neutrale Sachaussagen schnell als Vorwurf wahr. " +
			"Die bewusste Frage \"Mit welchem Ohr habe ich das gerade gehört?\" schafft " +
			"Distanz zur ersten Deutung.",
		Keywords: []string{"vier ohren", "beziehungsohr", "vorwurf", "deutung"},
	},
	{
		Id:       "aktives-zuhoeren",
		Category: core.CategoryListening,
		Title:    "Aktives Zuhören",
		Content: "Aktives Zuhören nach Carl Rogers bedeutet, dem Gegenüber volle " +
			"Aufmerksamkeit zu geben, das Gehörte in eigenen Worten zu paraphrasieren " +
			"und wahrgenommene Gefühle zu verbalisieren, bevor man selbst antwortet. Es " +
			"geht darum zu verstehen, nicht darum zu gewinnen oder sofort Lösungen " +
			"anzubieten.",
		Keywords: []string{"aktives zuhören", "rogers", "paraphrasieren", "verbalisieren", "aufmerksamkeit"},
	},
	{
		Id:       "ich-botschaften",
		Category: core.CategoryListening,
		Title:    "Ich-Botschaften",
		Content: "Ich-Botschaften beschreiben die eigene Wahrnehmung und Wirkung statt " +
			"das Verhalten des anderen zu etikettieren: \"Ich bin unruhig, wenn ich bis " +
			"zum Abend nichts höre\" statt \"Du meldest dich nie\". Du-Botschaften " +
			"klingen wie Angriffe und erzeugen Verteidigung, Ich-Botschaften laden zum " +
			"Zuhören ein.",
		Keywords: []string{"ich-botschaft", "du-botschaft", "vorwurf", "wirkung"},
	},
	{
		Id:       "eskalationsstufen",
		Category: core.CategoryConflict,
		Title:    "Eskalationsstufen nach Glasl",
		Content: "Friedrich Glasl beschreibt neun Eskalationsstufen von der Verhärtung " +
			"über Gesichtsverlust bis \"gemeinsam in den Abgrund\". In frühen Stufen " +
			"können die Beteiligten den Konflikt noch selbst lösen, ab der mittleren " +
			"Ebene braucht es Moderation, in späten Stufen externe Intervention. Je " +
			"früher gegengesteuert wird, desto größer der Handlungsspielraum.",
		Keywords: []string{"eskalation", "glasl", "konfliktstufen", "moderation"},
	},
	{
		Id:       "deeskalation",
		Category: core.CategoryConflict,
		Title:    "Deeskalation im Gespräch",
		Content: "Deeskalation beginnt mit Verlangsamung: Tempo herausnehmen, " +
			"Lautstärke senken, Pausen zulassen. Hilfreich sind das Anerkennen der " +
			"Emotion des Gegenübers, das Zusammenfassen seiner Position und das " +
			"Verschieben strittiger Punkte, bis beide wieder aufnahmefähig sind. Wer " +
			"Recht behalten will, eskaliert; wer verstehen will, deeskaliert.",
		Keywords: []string{"deeskalation", "verlangsamung", "emotion", "zusammenfassen"},
	},
	{
		Id:       "feedback-regeln",
		Category: core.CategoryGeneral,
		Title:    "Feedback geben und nehmen",
		Content: "Wirksames Feedback ist konkret, zeitnah und beschreibt Verhalten " +
			"statt Person. Es nennt die Wirkung auf den Feedbackgeber und lässt dem " +
			"Empfänger die Entscheidung, was er damit tut. Beim Annehmen von Feedback " +
			"gilt: zuhören, nachfragen, sich bedanken. Rechtfertigen ist optional und " +
			"selten hilfreich.",
		Keywords: []string{"feedback", "rückmeldung", "wirkung", "verhalten"},
	},
}
