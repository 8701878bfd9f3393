package ledger

import "testing"

func TestComputeKPIs(t *testing.T) {
	kpis := ComputeKPIs(1000, 400, 200, 50)

	if kpis.GrossProfit != 600 {
		t.Fatalf("gross profit = %v, want 600", kpis.GrossProfit)
	}
	if kpis.OperatingProfit != 400 {
		t.Fatalf("operating profit = %v, want 400", kpis.OperatingProfit)
	}
	if kpis.NetProfit != 350 {
		t.Fatalf("net profit = %v, want 350", kpis.NetProfit)
	}
	if kpis.GrossMargin != 60 {
		t.Fatalf("gross margin = %v, want 60", kpis.GrossMargin)
	}
	if kpis.NetMargin != 35 {
		t.Fatalf("net margin = %v, want 35", kpis.NetMargin)
	}
}

func TestComputeKPIsNetProfitLaw(t *testing.T) {
	cases := []struct {
		name                            string
		revenue, cogs, expenses, taxes float64
	}{
		{"positive", 5000, 1200, 800, 300},
		{"losses", -100, 50, 25, 10},
		{"credits", 1000, -200, -100, -50},
		{"zero", 0, 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kpis := ComputeKPIs(tc.revenue, tc.cogs, tc.expenses, tc.taxes)
			want := tc.revenue - tc.cogs - tc.expenses - tc.taxes
			if kpis.NetProfit != want {
				t.Fatalf("net profit = %v, want %v", kpis.NetProfit, want)
			}
		})
	}
}

func TestComputeKPIsZeroRevenue(t *testing.T) {
	kpis := ComputeKPIs(0, 400, 200, 50)

	if kpis.GrossMargin != 0 {
		t.Fatalf("gross margin = %v, want 0 for zero revenue", kpis.GrossMargin)
	}
	if kpis.NetMargin != 0 {
		t.Fatalf("net margin = %v, want 0 for zero revenue", kpis.NetMargin)
	}
	if kpis.NetProfit != -650 {
		t.Fatalf("net profit = %v, want -650", kpis.NetProfit)
	}
}

func TestRecordKPIsRoundTrip(t *testing.T) {
	submitted := ComputeKPIs(1234.56, 789.01, 234.5, 67.89)

	rec := Record{Revenue: 1234.56, COGS: 789.01, Expenses: 234.5, Taxes: 67.89}
	recomputed := rec.KPIs()

	if recomputed != submitted {
		t.Fatalf("recomputed KPIs %+v differ from submitted %+v", recomputed, submitted)
	}
}
