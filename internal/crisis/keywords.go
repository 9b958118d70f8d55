package crisis

// KeywordCategory is one weighted group of the detection table.
type KeywordCategory struct {
	Name     string   `yaml:"name"`
	Weight   int      `yaml:"weight"`
	Keywords []string `yaml:"keywords"`
}

const (
	CategorySuicide        = "suicidio"
	CategorySelfHarm       = "autolesion"
	CategoryViolence       = "violencia"
	CategoryDeath          = "muerte"
	CategorySevereDistress = "angustia"
)

const (
	thresholdCritical = 10
	thresholdHigh     = 7
	thresholdModerate = 5
)

// Keywords are lowercase; matching lowercases the input and looks for
// plain substrings, so a keyword inside a longer word still counts.
var defaultTable = []KeywordCategory{
	{
		Name:   CategorySuicide,
		Weight: 10,
		Keywords: []string{
			"suicidio",
			"suicidarme",
			"matarme",
			"quitarme la vida",
			"acabar con mi vida",
			"no quiero vivir",
			"quiero morir",
		},
	},
	{
		Name:   CategorySelfHarm,
		Weight: 8,
		Keywords: []string{
			"cortarme",
			"autolesion",
			"autolesión",
			"hacerme daño",
			"lastimarme",
		},
	},
	{
		Name:   CategoryViolence,
		Weight: 9,
		Keywords: []string{
			"golpear",
			"pegarle",
			"un arma",
			"matar a",
			"venganza",
		},
	},
	{
		Name:   CategoryDeath,
		Weight: 7,
		Keywords: []string{
			"muerte",
			"morir",
			"funeral",
			"velorio",
		},
	},
	{
		Name:   CategorySevereDistress,
		Weight: 5,
		Keywords: []string{
			"desesperado",
			"desesperada",
			"no puedo más",
			"sin salida",
			"sin esperanza",
			"ya no aguanto",
		},
	},
}

// DefaultTable returns a copy of the built-in keyword table.
func DefaultTable() []KeywordCategory {
	out := make([]KeywordCategory, len(defaultTable))
	for i, cat := range defaultTable {
		out[i] = KeywordCategory{
			Name:     cat.Name,
			Weight:   cat.Weight,
			Keywords: append([]string(nil), cat.Keywords...),
		}
	}
	return out
}

var recommendations = map[string]string{
	"critical": "Atención inmediata: contactar al estudiante hoy mismo y activar el protocolo de crisis con servicios de emergencia si hay riesgo inminente.",
	"high":     "Prioridad alta: responder en las próximas horas y ofrecer una sesión presencial con orientación.",
	"moderate": "Seguimiento cercano: responder pronto con recursos de apoyo y validar cómo se siente.",
	"none":     "Sin señales de crisis: responder dentro del tiempo habitual.",
}
