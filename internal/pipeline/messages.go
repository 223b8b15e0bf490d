package pipeline

import "TokenSentinel/internal/lang"

// Fixed user-facing copy for the paths where no narrative gets generated.
// Grounded answers say what went wrong instead of guessing.

func timeoutMessage(locale string) string {
	if locale == lang.RU {
		return "Не могу проверить тикер — сервис отвечает слишком долго. Попробуй через минуту."
	}
	return "Cannot verify the ticker right now, the data service timed out. Try again in a minute."
}

func unavailableMessage(locale string) string {
	if locale == lang.RU {
		return "Не могу проверить тикер — сервис данных сейчас недоступен. Попробуй через минуту."
	}
	return "Cannot verify the ticker right now, the data service is unavailable. Try again in a minute."
}

func notFoundMessage(locale string) string {
	if locale == lang.RU {
		return "Не нашёл подтверждённых данных по этому тикеру. Пришли точный символ (латиницей) или адрес контракта."
	}
	return "I couldn't find verified data for that ticker. Please send the exact symbol (Latin letters) or the contract address."
}

func nothingToRegenerate(locale string) string {
	if locale == lang.RU {
		return "Не нашёл сообщение, которое можно перегенерировать. Задай вопрос ещё раз."
	}
	return "I couldn't find a message to regenerate. Please ask your question again."
}

func generationFailedNote(locale string) string {
	if locale == lang.RU {
		return "Анализ сейчас недоступен."
	}
	return "Analysis is unavailable right now."
}
