package segment

// labels translates IPA feature values for display.
var labels = map[string]string{
	TagNoun:              "Noun",
	TagVerb:              "Verb",
	TagAdjective:         "Adjective",
	TagAdverb:            "Adverb",
	TagParticle:          "Particle",
	TagAuxiliaryVerb:     "Auxiliary verb",
	TagSymbol:            "Symbol",
	TagPrefix:            "Prefix",
	TagInterjection:      "Interjection",
	TagPreNounAdjectival: "Pre-noun adjectival",
	TagConjunction:       "Conjunction",
	TagFiller:            "Filler",

	SubtypeConjunctiveParticle: "Conjunctive particle",
	SubtypeNotIndependent:      "Not independent",
	SubtypeSuffix:              "Suffix",

	"その他":     "Other",
	"アルファベット": "Alphabet",
	"一般":      "General",
	"自立":      "Independent",
	"代名詞":     "Pronoun",
	"固有名詞":    "Proper noun",
	"人名":      "Personal name",
	"姓":       "Surname",
	"名":       "Given name",
	"組織":      "Organization",
	"地域":      "Region",
	"国":       "Country",
	"数":       "Number",
	"助数詞":     "Counter",
	"副詞可能":    "Adverbial noun",
	"サ変接続":    "Suru-verb noun",
	"形容動詞語幹":  "Na-adjective stem",
	"ナイ形容詞語幹": "Nai-adjective stem",
	"助動詞語幹":   "Auxiliary verb stem",
	"動詞非自立的":  "Dependent verb-like",
	"連語":      "Collocation",
	"引用文字列":   "Quoted string",
	"格助詞":     "Case particle",
	"係助詞":     "Binding particle",
	"副助詞":     "Adverbial particle",
	"並立助詞":    "Parallel particle",
	"終助詞":     "Sentence-ending particle",
	"連体化":     "Adnominalizer",
	"副詞化":     "Adverbializer",
	"間投":      "Interjectory",
	"引用":      "Quotation",
	"句点":      "Period",
	"読点":      "Comma",
	"空白":      "Blank",
	"括弧開":     "Open bracket",
	"括弧閉":     "Close bracket",

	"一段":       "Ichidan",
	"一段・クレル":   "Ichidan, kureru",
	"五段・カ行イ音便": "Godan ku, i-euphony",
	"五段・カ行促音便": "Godan ku, geminate euphony",
	"五段・ガ行":    "Godan gu",
	"五段・サ行":    "Godan su",
	"五段・タ行":    "Godan tsu",
	"五段・ナ行":    "Godan nu",
	"五段・バ行":    "Godan bu",
	"五段・マ行":    "Godan mu",
	"五段・ラ行":    "Godan ru",
	"五段・ラ行特殊":  "Godan ru, special",
	"五段・ワ行促音便": "Godan u, geminate euphony",
	"カ変・クル":    "Irregular kuru",
	"カ変・来ル":    "Irregular kuru (kanji)",
	"サ変・スル":    "Irregular suru",
	"サ変・－スル":   "Irregular suru suffix",
	"形容詞・イ段":   "Adjective, i-row",
	"形容詞・アウオ段": "Adjective, a/u/o-row",
	"形容詞・イイ":   "Adjective, ii",
	"不変化型":     "Uninflected",

	"特殊・タ":  "Special ta",
	"特殊・ダ":  "Special da",
	"特殊・デス": "Special desu",
	"特殊・ナイ": "Special nai",
	"特殊・マス": "Special masu",
	"特殊・タイ": "Special tai",
	"特殊・ヌ":  "Special nu",

	"基本形":    "Dictionary form",
	"未然形":    "Irrealis form",
	"連用形":    "Continuative form",
	"仮定形":    "Hypothetical form",
	"命令ｅ":    "Imperative e",
	"命令ｒｏ":   "Imperative ro",
	"命令ｙｏ":   "Imperative yo",
	"体言接続":   "Attributive",
	"連用タ接続":  "Continuative ta",
	"連用テ接続":  "Continuative te",
	"連用デ接続":  "Continuative de",
	"未然ウ接続":  "Irrealis u",
	"未然ヌ接続":  "Irrealis nu",
	"未然レル接続": "Irrealis reru",
	"音便基本形":  "Euphonic dictionary form",
	"ガル接続":   "Garu connection",
}
