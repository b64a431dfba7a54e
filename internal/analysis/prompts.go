package analysis

// Prompt templates per language. The first %s is the transcript; the
// comparison prompt takes the minutes as the second %s. failure takes the
// client name and the error.
type prompts struct {
	refine  string
	compare string
	failure string
}

var promptsByLanguage = map[string]prompts{
	"es": {
		refine: `Eres un asistente experto en procesamiento de lenguaje.
Tienes la siguiente transcripción automática de un audio (puede contener errores, frases inconexas o redundancias).

Tu tarea:
1. Reescribe el texto para que sea coherente y gramaticalmente correcto.
2. Mantén el SIGNIFICADO original, no inventes contenido.
3. No resumas, solo organiza y corrige.

Texto:
%s
`,
		compare: `Eres un experto en análisis semántico.
Tu tarea es COMPARAR dos textos: la TRANSCRIPCIÓN de una reunión y el ACTA escrita.

Muy importante:
- No compares palabras literales, compara IDEAS y SIGNIFICADOS.
- Considera equivalentes frases con distinta redacción si expresan lo mismo.
  Ejemplo: "poseo un coche rojo" = "tengo un coche rojo" = "mi coche es rojo".
- Si un fragmento es solo un cambio de estilo pero con mismo sentido, cuenta como COINCIDENCIA.
- Si una idea aparece en uno y no en el otro, márcalo como OMISIÓN o EXCESO.
- Señala DISCREPANCIAS solo cuando el sentido cambie (ej: cantidad, condición, fecha, persona responsable).

TRANSCRIPCIÓN:
%s

ACTA:
%s

Devuélveme un informe en español con estas secciones claras:
1) Resumen breve de la reunión (máx 6 líneas).
2) Resumen breve del acta (máx 6 líneas).
3) Coincidencias clave (ideas presentes en ambos).
4) Omisiones (ideas en la reunión que no aparecen en el acta).
5) Excesos (ideas en el acta que no aparecen en la reunión).
6) Discrepancias (cuando lo que se dice NO es lo mismo: cifras, fechas, condiciones, responsables).
7) Conclusión: grado de fidelidad del acta (porcentaje estimado y justificación breve).
`,
		failure: "❌ Error al usar %s: %v",
	},
	"en": {
		refine: `You are an expert language-processing assistant.
Below is an automatic transcript of an audio recording (it may contain errors, broken sentences or repetitions).

Your task:
1. Rewrite the text so it is coherent and grammatically correct.
2. Keep the original MEANING, do not invent content.
3. Do not summarize, only organize and correct.

Text:
%s
`,
		compare: `You are an expert in semantic analysis.
Your task is to COMPARE two texts: the TRANSCRIPT of a meeting and the written MINUTES.

Very important:
- Do not compare literal words, compare IDEAS and MEANINGS.
- Treat differently worded sentences as equivalent when they express the same thing.
  Example: "I own a red car" = "I have a red car" = "my car is red".
- A passage that only changes style but keeps the meaning counts as a MATCH.
- An idea present in one text and not the other is an OMISSION or an EXCESS.
- Flag DISCREPANCIES only when the meaning changes (e.g. amount, condition, date, person responsible).

TRANSCRIPT:
%s

MINUTES:
%s

Return a report in English with these clear sections:
1) Brief summary of the meeting (max 6 lines).
2) Brief summary of the minutes (max 6 lines).
3) Key matches (ideas present in both).
4) Omissions (ideas from the meeting missing from the minutes).
5) Excesses (ideas in the minutes that were not said in the meeting).
6) Discrepancies (where what was said is NOT the same: figures, dates, conditions, people responsible).
7) Conclusion: fidelity of the minutes (estimated percentage and brief justification).
`,
		failure: "❌ Error using %s: %v",
	},
}

func promptsFor(language string) prompts {
	if p, ok := promptsByLanguage[language]; ok {
		return p
	}
	return promptsByLanguage["es"]
}
