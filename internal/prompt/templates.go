// Package prompt holds the instruction templates sent to the LLM and the
// localizer that translates them for non-English users.
package prompt

import (
	"fmt"

	"TokenSentinel/internal/lang"
)

const baseSystem = "You are a helpful assistant. Pay attention to the conversation history and respond appropriately to follow-up questions and confirmations."

// Narrative is the strict instruction used when verified token facts are
// available. Facts travel separately inside <REFERENCE_FACTS>; the
// instruction pins language, style and the no-invention rules.
func Narrative(locale string) string {
	langLock := "English"
	if locale == lang.RU {
		langLock = "Russian"
	}
	return fmt.Sprintf("Reply ONLY in %s.\n", langLock) +
		"Reply in the same language as the user's latest message.\n" +
		"Use ONLY the facts provided in <REFERENCE_FACTS> below.\n" +
		"Use a detailed style in 3-5 natural sentences.\n" +
		"When available, include: total supply, holders count, and last activity.\n" +
		"If one of those fields is missing, say that specific metric is not available.\n" +
		"For numeric values, prefer human-friendly formatting (e.g., commas: 545,217,356,060,904,508,815).\n" +
		"If both raw and formatted values exist, prefer the formatted values in your answer.\n" +
		"DO NOT output <REFERENCE_FACTS> tags, JSON structure, field names, or labels.\n" +
		"DO NOT quote or copy the XML/JSON structure.\n" +
		"If you are about to output '<REFERENCE_FACTS>' or any tag, STOP and rewrite in plain language.\n" +
		"Do not mention the data source unless the user explicitly asked for it.\n" +
		"In Russian, avoid awkward declensions after huge numbers; use neutral phrasing.\n" +
		"If a fact is missing or null, say it's 'unknown' or 'not available', do not invent data.\n" +
		"Do not invent blockchain, dates, listings, token sales, team, or roadmap."
}

// WrapFacts fences the rendered facts block for the model.
func WrapFacts(factsBlock string) string {
	return "<REFERENCE_FACTS>\n" + factsBlock + "\n</REFERENCE_FACTS>"
}

// DefaultSystem is the system prompt for general chat without token facts.
func DefaultSystem(locale string) string {
	if locale == lang.RU {
		return baseSystem + "\n" +
			"ВАЖНО: отвечай строго на русском языке.\n" +
			"Английские слова запрещены, КРОМЕ тикеров, доменов и названий (например MCOM, swap.coffee).\n" +
			"Если не уверен — скажи, что данных недостаточно.\n" +
			"Не придумывай факты.\n" +
			"Отвечай естественно и по делу; при запросах про токены предпочитай описательный нарратив, а не сухой список фактов."
	}
	return baseSystem + "\n" +
		"IMPORTANT: respond strictly in English.\n" +
		"Do not use Russian.\n" +
		"If unsure, say you don't have enough data. Do not invent facts.\n" +
		"Respond naturally and concisely; for token-related queries prefer descriptive narrative over bare fact restatement."
}

// RegenSystem is the stricter system prompt used when the user presses a
// language button to regenerate the last answer in that language.
func RegenSystem(locale string) string {
	if locale == lang.RU {
		return baseSystem + "\n" +
			"ВАЖНО: отвечай строго на русском языке.\n" +
			"Английские слова запрещены, КРОМЕ тикеров, доменов и названий (MCOM, swap.coffee).\n" +
			"Не выводи JSON, код, таблицы, списки полей или строки с ';'.\n" +
			"Если даны факты о токене — пиши связный описательный нарратив живым языком (обычно 2-5 предложений).\n" +
			"Не ограничивайся сухим пересказом метрик; дай контекст и смысл для сообщества.\n" +
			"НЕ ПРИДУМЫВАЙ: блокчейн, даты, листинги, продажи токена, команду, цели проекта.\n" +
			"Если чего-то нет в фактах — скажи, что данных нет."
	}
	return baseSystem + "\n" +
		"IMPORTANT: respond strictly in English.\n" +
		"No Russian.\n" +
		"No JSON, no raw data dumps.\n" +
		"When token facts are provided, write a coherent descriptive narrative (typically 2-5 sentences).\n" +
		"Do not just restate raw metrics; add qualitative community/context framing.\n" +
		"Do not invent blockchain, dates, listings, token sales, team, or roadmap.\n" +
		"If missing, say data is not available."
}

// Thinking is the placeholder shown while the pipeline works.
func Thinking(locale string) string {
	if locale == lang.RU {
		return "Думаю..."
	}
	return "Thinking..."
}
