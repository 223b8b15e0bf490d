package ticker

// stopWords are frequent English words and web noise that look like ticker
// symbols once uppercased. Checked against the normalized symbol.
var stopWords = map[string]bool{
	"THE": true, "WHAT": true, "THIS": true, "THAT": true, "HAVE": true, "WITH": true,
	"FROM": true, "THEY": true, "BEEN": true, "WERE": true, "SAID": true, "EACH": true,
	"WHICH": true, "THEIR": true, "ABOUT": true, "WOULD": true, "THESE": true,
	"OTHER": true, "COULD": true, "SOME": true, "THAN": true, "THEN": true, "THEM": true,
	"INTO": true, "ALSO": true, "YOUR": true, "JUST": true, "LIKE": true, "MORE": true,
	"VERY": true, "WHEN": true, "MAKE": true, "TIME": true, "YEAR": true, "OVER": true,
	"ONLY": true, "SUCH": true, "WELL": true, "BACK": true, "GOOD": true, "MUCH": true,
	"HTTP": true, "HTTPS": true, "WWW": true, "API": true, "URL": true, "COM": true,
	"ORG": true, "NET": true, "HTML": true, "JSON": true, "XML": true, "JPEG": true,
	"PNG": true, "GIF": true, "PDF": true, "DOC": true, "TXT": true, "CSV": true,
	"AND": true, "FOR": true, "ARE": true, "BUT": true, "NOT": true, "YOU": true,
	"ALL": true, "CAN": true, "HER": true, "WAS": true, "ONE": true, "OUR": true,
	"OUT": true, "DAY": true, "GET": true, "HAS": true, "HIM": true, "HIS": true,
	"HOW": true, "MAN": true, "NEW": true, "NOW": true, "OLD": true, "SEE": true,
	"TWO": true, "WAY": true, "WHO": true, "BOY": true, "DID": true, "ITS": true,
	"LET": true, "PUT": true, "SAY": true, "SHE": true, "TOO": true, "USE": true,
}

// contextWordsEN signal that a message is about crypto/tokens.
// Matched as substrings of the lowercased message.
var contextWordsEN = []string{
	"token", "coin", "crypto", "price", "supply", "market", "cap",
	"contract", "address", "blockchain", "wallet", "exchange",
	"trading", "buy", "sell", "hodl", "moon", "lambo", "dip",
	"pump", "dump", "whale", "airdrop", "mint", "burn", "stake",
}

// contextWordsRU is the Russian counterpart of contextWordsEN.
var contextWordsRU = []string{
	"токен", "монета", "крипто", "цена", "саплай", "капитализация",
	"контракт", "адрес", "блокчейн", "кошелёк", "биржа", "обмен",
	"торговля", "купить", "продать", "холдить", "луна", "памп",
	"дамп", "кит", "аирдроп", "минт", "сжигание", "стейкинг",
}
