package score

import "github.com/ppiankov/adjury/internal/model"

const policyBaseURL = "https://www.facebook.com/policies/ads/"

// category describes one scam family: detection patterns, risk and the policy it breaks
type category struct {
	Type      model.ScamType
	Patterns  []string
	RiskScore int
	Policy    model.PolicyViolation
}

// categories is evaluated in order; the order decides ties after sorting by risk
var categories = []category{
	{
		Type: model.ScamCrypto,
		Patterns: []string{
			`(?i)crypto\s*(giveaway|airdrop)`,
			`(?i)send\s*[\d.]+\s*(?:btc|eth|bitcoin|ethereum)`,
			`(?i)double\s*your\s*(?:btc|crypto|bitcoin)`,
			`(?i)bitcoin\s*(?:investment|opportunity)`,
			`(?i)guaranteed\s*(?:returns?|profit)`,
			`(?i)(?:10x|100x)\s*(?:returns?|gains?)`,
			`(?i)next\s*(?:big|huge)\s*crypto`,
		},
		RiskScore: 9,
		Policy: model.PolicyViolation{
			Code:      "§4.2",
			Name:      "Prohibited Financial Products and Services",
			Section:   "Financial Services",
			Severity:  "critical",
			PolicyURL: policyBaseURL + "prohibited_content/financial_products_and_services",
		},
	},
	{
		Type: model.ScamFakeCelebrity,
		Patterns: []string{
			`(?i)elon\s*musk\s*(?:reveals?|announces?|says?|just)`,
			`(?i)(?:breaking|urgent):\s*(?:elon|trump|bezos|gates)`,
			`(?i)celebrity\s*(?:endorsed?|secret|reveals?)`,
			`(?i)(?:billionaire|ceo)\s*(?:reveals?|secret)`,
			`(?i)(?:oprah|ellen|dr\.?\s*oz)\s*(?:recommends?|uses?)`,
		},
		RiskScore: 9,
		Policy: model.PolicyViolation{
			Code:      "§3.2",
			Name:      "Misleading or False Content",
			Section:   "Deceptive Practices",
			Severity:  "critical",
			PolicyURL: policyBaseURL + "prohibited_content/misinformation",
		},
	},
	{
		Type: model.ScamPhishing,
		Patterns: []string{
			`(?i)(?:verify|confirm)\s*your\s*(?:account|identity)`,
			`(?i)(?:suspended|locked|limited)\s*account`,
			`(?i)click\s*(?:here|now)\s*(?:to\s*)?(?:verify|unlock|confirm)`,
			`(?i)(?:unusual|suspicious)\s*(?:activity|login)`,
			`(?i)pay\s*(?:with|using)\s*gift\s*card`,
		},
		RiskScore: 10,
		Policy: model.PolicyViolation{
			Code:      "§1.1",
			Name:      "Illegal Products and Services",
			Section:   "Prohibited Content",
			Severity:  "critical",
			PolicyURL: policyBaseURL + "prohibited_content",
		},
	},
	{
		Type: model.ScamFakeWeightLoss,
		Patterns: []string{
			`(?i)lost?\s*\d+\s*(?:lbs?|pounds?|kg)\s*in\s*\d+\s*(?:days?|weeks?)`,
			`(?i)(?:without|no)\s*(?:diet|exercise|working\s*out)`,
			`(?i)(?:burn|melt)\s*(?:fat|belly)`,
			`(?i)one\s*(?:simple|weird)\s*trick`,
			`(?i)(?:before|after)\s*(?:transformation|results?)`,
		},
		RiskScore: 7,
		Policy: model.PolicyViolation{
			Code:      "§5.1",
			Name:      "Health and Wellness Claims",
			Section:   "Restricted Content",
			Severity:  "high",
			PolicyURL: policyBaseURL + "restricted_content/weight_loss",
		},
	},
	{
		Type: model.ScamHealthMiracle,
		Patterns: []string{
			`(?i)doctors?\s*(?:don'?t\s*want|hate\s*this|won'?t\s*tell)`,
			`(?i)big\s*pharma\s*(?:hides?|doesn'?t\s*want)`,
			`(?i)cure[sd]?\s*(?:diabetes|cancer|covid|arthritis)`,
			`(?i)(?:miracle|secret|ancient)\s*(?:cure|remedy|treatment)`,
			`(?i)fda\s*(?:approved|banned)\s*(?:this|secret)`,
		},
		RiskScore: 9,
		Policy: model.PolicyViolation{
			Code:      "§5.2",
			Name:      "Unsubstantiated Health Claims",
			Section:   "Restricted Content",
			Severity:  "critical",
			PolicyURL: policyBaseURL + "restricted_content/health",
		},
	},
	{
		Type: model.ScamGetRichQuick,
		Patterns: []string{
			`(?i)made?\s*\$[\d,]+\s*(?:in|within)\s*\d+\s*(?:days?|hours?|weeks?)`,
			`(?i)(?:free|secret)\s*(?:money|cash|income)\s*(?:method|system)`,
			`(?i)(?:banks?|government)\s*(?:don'?t\s*want|hates?\s*this)`,
			`(?i)passive\s*income\s*(?:secret|system|method)`,
			`(?i)(?:quit|leave)\s*(?:your|my)\s*(?:job|9.?5)`,
			`(?i)dm\s*(?:me|now)\s*['"]?(?:money|cash|info)`,
		},
		RiskScore: 8,
		Policy: model.PolicyViolation{
			Code:      "§4.3",
			Name:      "Misleading Financial Claims",
			Section:   "Financial Services",
			Severity:  "high",
			PolicyURL: policyBaseURL + "prohibited_content/misleading_claims",
		},
	},
	{
		Type: model.ScamUrgency,
		Patterns: []string{
			`(?i)(?:urgent|warning|alert)[:,]?\s*(?:your|this)`,
			`(?i)(?:expires?|ends?)\s*(?:in\s*)?\d+\s*(?:hours?|minutes?)`,
			`(?i)(?:act|click|buy)\s*(?:now|fast|immediately)`,
			`(?i)(?:limited|last)\s*(?:time|chance|spots?|offer)`,
			`(?i)(?:before\s*)?(?:they|it)\s*(?:take[s]?\s*(?:this|it)\s*down|runs?\s*out)`,
		},
		RiskScore: 6,
		Policy: model.PolicyViolation{
			Code:      "§3.4",
			Name:      "Pressure Tactics",
			Section:   "Deceptive Practices",
			Severity:  "medium",
			PolicyURL: policyBaseURL + "prohibited_content/low_quality",
		},
	},
	{
		Type: model.ScamFakeGiveaway,
		Patterns: []string{
			`(?i)(?:free|giving\s*away)\s*(?:iphone|macbook|tesla|ps5|xbox)`,
			`(?i)(?:won|winner|selected)\s*(?:for|of)\s*(?:a|the)\s*(?:prize|giveaway)`,
			`(?i)(?:claim|collect)\s*your\s*(?:prize|reward|gift)`,
			`(?i)congratulations[!,]?\s*you'?(?:ve|re)`,
		},
		RiskScore: 8,
		Policy: model.PolicyViolation{
			Code:      "§3.1",
			Name:      "Deceptive Promotions",
			Section:   "Deceptive Practices",
			Severity:  "high",
			PolicyURL: policyBaseURL + "prohibited_content/misleading_claims",
		},
	},
	{
		Type: model.ScamFakeJob,
		Patterns: []string{
			`(?i)(?:no\s*experience|anyone\s*can)\s*(?:needed|required|do\s*this)`,
			`(?i)\$\d+[-/]\d+\s*(?:per\s*)?(?:hr|hour)`,
			`(?i)(?:work|earn)\s*(?:from\s*)?home\s*(?:today|now)`,
			`(?i)(?:hiring|looking\s*for)\s*(?:immediately|now|today)`,
			`(?i)(?:data\s*entry|typing)\s*(?:job|work|position)`,
		},
		RiskScore: 5,
		Policy: model.PolicyViolation{
			Code:      "§6.1",
			Name:      "Employment Opportunities",
			Section:   "Restricted Content",
			Severity:  "medium",
			PolicyURL: policyBaseURL + "restricted_content/employment",
		},
	},
	{
		Type: model.ScamMLM,
		Patterns: []string{
			`(?i)(?:join\s*my|become\s*a)\s*team`,
			`(?i)(?:financial|time)\s*freedom`,
			`(?i)(?:boss|bossbabe|ceo)\s*(?:babe|life|mode)`,
			`(?i)residual\s*(?:income|earnings?)`,
			`(?i)(?:network|multi.?level)\s*marketing`,
		},
		RiskScore: 6,
		Policy: model.PolicyViolation{
			Code:      "§4.4",
			Name:      "Multi-Level Marketing",
			Section:   "Financial Services",
			Severity:  "medium",
			PolicyURL: policyBaseURL + "restricted_content/mlm",
		},
	},
	{
		Type: model.ScamRomance,
		Patterns: []string{
			`(?i)(?:lonely|single)\s*(?:ladies?|women|men|guys?)`,
			`(?i)(?:hot|beautiful)\s*(?:singles?|women|ladies?)\s*(?:near|in)\s*(?:your|my)\s*area`,
			`(?i)(?:meet|date|chat\s*with)\s*(?:local|hot|beautiful)`,
		},
		RiskScore: 7,
		Policy: model.PolicyViolation{
			Code:      "§2.3",
			Name:      "Adult Content and Dating",
			Section:   "Restricted Content",
			Severity:  "high",
			PolicyURL: policyBaseURL + "restricted_content/dating",
		},
	},
}
