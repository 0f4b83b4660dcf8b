package api

const (
	unlockCookieName   = "ration_unlocked"
	languageCookieName = "ration_lang"
	flashCookieName    = "ration_flash"
	contextLanguageKey = "current_language"
	contextMessagesKey = "current_messages"
	contextUnlockedKey = "unlocked"
)
