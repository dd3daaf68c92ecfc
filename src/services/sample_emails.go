package services

import "github.com/username/tradewhatif/src/models"

const schwabFooter = `
If you'd like to view your account, or place additional trades, just click the link below.

View your summary

Or go to schwab.com/accountsummary.

Thank you for investing with Schwab.
`

func schwabSample(date, rows string) string {
	return `
Charles Schwab

Account ending: 984
` + date + `

Here's a summary of your expired day order instructions.

Here are the expired instructions for your account ending in 984.

Expired Day Order Instructions

Action    Quantity    Symbol/Description    Price
` + rows + schwabFooter
}

// SampleEmails is the demo mailbox content served by the mock provider.
var SampleEmails = []models.Email{
	{
		ID:      "email1",
		Subject: "Your expired instructions summary is ready to view",
		Date:    "2025-04-25",
		Content: schwabSample("Apr 25, 2025", "BUY       47          OMEX                 $1.26\n"),
	},
	{
		ID:      "email2",
		Subject: "Your expired instructions summary is ready to view",
		Date:    "2025-04-20",
		Content: schwabSample("Apr 20, 2025",
			"SELL      100         AAPL                 $175.50\n"+
				"BUY       25          MSFT                 $420.75\n"),
	},
	{
		ID:      "email3",
		Subject: "Your expired instructions summary is ready to view",
		Date:    "2025-04-15",
		Content: schwabSample("Apr 15, 2025",
			"BUY       200         TSLA                 $250.30\n"+
				"SELL      50          AMZN                 $180.25\n"+
				"BUY       75          GOOGL                $145.60\n"),
	},
}
