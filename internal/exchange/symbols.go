package exchange

// DefaultSymbols is the large-cap universe the simulator tracks when none is configured.
var DefaultSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK.B", "UNH", "JNJ",
	"V", "XOM", "WMT", "LLY", "JPM", "MA", "PG", "AVGO", "HD", "CVX",
	"MRK", "ABBV", "COST", "PEP", "KO", "ADBE", "TMO", "BAC", "CSCO", "MCD",
	"ACN", "NFLX", "CRM", "ABT", "WFC", "DHR", "VZ", "CMCSA", "DIS", "AMD",
	"INTC", "NKE", "TXN", "UPS", "PM", "QCOM", "NEE", "RTX", "HON", "INTU",
	"UNP", "SPGI", "MS", "COP", "IBM", "LOW", "GS", "BA", "CAT", "NOW",
	"AMGN", "BLK", "DE", "ELV", "GILD", "BKNG", "AXP", "MDT", "GE", "SBUX",
	"ADI", "LMT", "ISRG", "SYK", "PLD", "ADP", "REGN", "MMC", "TJX", "VRTX",
	"TMUS", "C", "AMT", "ZTS", "MO", "CI", "SO", "CB", "DUK", "MDLZ",
	"SCHW", "FI", "PGR", "BDX", "BSX", "CL", "EOG", "HUM", "ETN", "SLB",
}
