package core

// FeeDescription is the fixed marker written on fee legs in place of the
// user's description, so fee rows are recognizable in the sheet.
const FeeDescription = "Transaction Fee"

// Compose expands one validated TransactionInput into the ordered sequence
// of signed records to post. It is pure: no I/O, no mutation of the input.
//
// Income yields one positive record (end wallet only), Expense one negative
// record (source wallet only). Movement yields a debit leg and a credit leg
// that sum to zero, plus a fee leg when the fee flag is set and the fee
// amount is strictly positive. An unset classification yields no records.
func Compose(in TransactionInput) ([]TransactionRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	base := TransactionRecord{
		Date:             in.Date,
		Classification:   in.Classification,
		SpecificCategory: in.SpecificCategory,
		Subcategory:      in.Subcategory,
		Description:      in.Description,
	}

	switch in.Classification {
	case Income:
		rec := base
		rec.Amount = in.Amount.Abs()
		rec.EndWallet = in.EndWallet
		return []TransactionRecord{rec}, nil

	case Expense:
		rec := base
		rec.Amount = in.Amount.Neg()
		rec.SourceWallet = in.SourceWallet
		return []TransactionRecord{rec}, nil

	case Movement:
		debit := base
		debit.Amount = in.Amount.Neg()
		debit.SourceWallet = in.SourceWallet

		credit := base
		credit.Amount = in.Amount.Abs()
		credit.EndWallet = in.EndWallet

		legs := []TransactionRecord{debit, credit}

		// A zero fee never produces a leg, even with the flag set.
		if in.FeeApplicable && in.FeeAmount.IsPositive() {
			fee := base
			fee.Amount = in.FeeAmount.Abs()
			fee.SourceWallet = in.SourceWallet
			fee.Description = FeeDescription
			legs = append(legs, fee)
		}
		return legs, nil
	}

	return nil, ErrIncompleteSelection
}
