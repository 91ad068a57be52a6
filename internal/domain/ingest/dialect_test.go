package ingest

import "testing"

func TestSelectDialect_PicksGenericSingleAmountForAmountHeader(t *testing.T) {
	d := SelectDialect([]string{"Date", "Description", "Amount", "Category"})
	if d.Name != "generic-single-amount" {
		t.Fatalf("expected generic-single-amount, got %q", d.Name)
	}
}

func TestSelectDialect_PicksPortugueseDoubleEntryForDebitCreditHeaders(t *testing.T) {
	d := SelectDialect([]string{"Data mov.", "Descrição", "Débito", "Crédito", "Saldo"})
	if d.Name != "portuguese-double-entry" {
		t.Fatalf("expected portuguese-double-entry, got %q", d.Name)
	}
}

func TestSelectDialect_FallsBackToCatchAll(t *testing.T) {
	d := SelectDialect([]string{"foo", "bar", "baz"})
	if d.Name != "catch-all" {
		t.Fatalf("expected catch-all, got %q", d.Name)
	}
}

func TestResolveMapping_SingleAmountFile(t *testing.T) {
	config, err := DetectConfig([]byte(sampleAmericanCSV))
	if err != nil {
		t.Fatalf("DetectConfig failed: %v", err)
	}

	mapping, err := ResolveMapping(config, ColumnMapping{
		DateCol: -1, DescCol: -1, AmountCol: -1, DebitCol: -1, CreditCol: -1, BalanceCol: -1, AccountCol: -1,
	})
	if err != nil {
		t.Fatalf("ResolveMapping failed: %v", err)
	}
	if mapping.IsDoubleEntry {
		t.Fatal("expected a single-amount mapping, got double-entry")
	}
	if mapping.AmountCol < 0 {
		t.Fatal("expected AmountCol to be resolved")
	}
}

func TestResolveMapping_DoubleEntryFile(t *testing.T) {
	config, err := DetectConfig([]byte(samplePortugueseCSV))
	if err != nil {
		t.Fatalf("DetectConfig failed: %v", err)
	}

	mapping, err := ResolveMapping(config, ColumnMapping{
		DateCol: -1, DescCol: -1, AmountCol: -1, DebitCol: -1, CreditCol: -1, BalanceCol: -1, AccountCol: -1,
	})
	if err != nil {
		t.Fatalf("ResolveMapping failed: %v", err)
	}
	if !mapping.IsDoubleEntry {
		t.Fatal("expected a double-entry mapping for debit/credit headers")
	}
	if mapping.DebitCol < 0 || mapping.CreditCol < 0 {
		t.Fatal("expected DebitCol and CreditCol to be resolved")
	}
}
