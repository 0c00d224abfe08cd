package mock

// passage is one retrievable excerpt of the canned corpus.
type passage struct {
	document string
	content  string
	keywords []string
}

var documents = []string{
	"constitucion_politica_colombia.pdf",
	"codigo_nacional_transito.pdf",
	"ley_1257_2008.pdf",
}

var corpus = []passage{
	{
		document: "constitucion_politica_colombia.pdf",
		content:  "ARTÍCULO 11. El derecho a la vida es inviolable. No habrá pena de muerte.",
		keywords: []string{"constitución", "constitucion", "vida", "derechos fundamentales", "fundamental"},
	},
	{
		document: "constitucion_politica_colombia.pdf",
		content: "ARTÍCULO 13. Todas las personas nacen libres e iguales ante la ley, recibirán la misma " +
			"protección y trato de las autoridades y gozarán de los mismos derechos, libertades y " +
			"oportunidades sin ninguna discriminación por razones de sexo, raza, origen nacional o " +
			"familiar, lengua, religión, opinión política o filosófica.",
		keywords: []string{"constitución", "constitucion", "igualdad", "derechos", "ciudadano", "discriminación"},
	},
	{
		document: "constitucion_politica_colombia.pdf",
		content:  "ARTÍCULO 40. Todo ciudadano tiene derecho a participar en la conformación, ejercicio y control del poder político.",
		keywords: []string{"ciudadano", "colombiano", "derechos", "participar", "voto"},
	},
	{
		document: "codigo_nacional_transito.pdf",
		content: "ARTÍCULO 152. Si hecha la prueba, se establece que el conductor se encuentra en cualquier " +
			"grado de embriaguez, se impondrán multas, suspensión de la licencia de conducción e " +
			"inmovilización del vehículo, según el grado de alcohol en la sangre.",
		keywords: []string{"embriaguez", "embriagado", "alcohol", "conducir", "sanciones", "licencia"},
	},
	{
		document: "codigo_nacional_transito.pdf",
		content:  "ARTÍCULO 131. Multas. Los infractores de las normas de tránsito serán sancionados con la imposición de multas.",
		keywords: []string{"multa", "multas", "tránsito", "transito", "sanciones", "infracción"},
	},
	{
		document: "ley_1257_2008.pdf",
		content: "ARTÍCULO 2. Por violencia contra la mujer se entiende cualquier acción u omisión que le " +
			"cause muerte, daño o sufrimiento físico, sexual, psicológico, económico o patrimonial por " +
			"su condición de mujer.",
		keywords: []string{"violencia", "género", "genero", "mujer", "protección", "protecciones"},
	},
	{
		document: "ley_1257_2008.pdf",
		content:  "ARTÍCULO 17. Medidas de protección en casos de violencia intrafamiliar, incluida la orden de desalojo del agresor.",
		keywords: []string{"protección", "protecciones", "violencia", "medidas", "agresor"},
	},
}
