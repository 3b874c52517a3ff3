package venue

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"go.uber.org/zap"

	"venueRouter/internal/codec"
	"venueRouter/internal/fault"
)

// supported lists every venue with a codec. Ids missing here are recognized
// but rejected with ErrUnsupportedVenue: aldrin, lifinity v1, pump.fun bonding
// curve, virtuals, vertigo, meteora damm v2, gavel, boop.fun, dooar,
// numeraire, saber decimal wrapper, 1dex, sol rfq, jupiter and okx routes.
var supported = []*Venue{
	saberVenue,
	whirlpoolVenue,
	meteoraDynamicVenue,
	raydiumSwapVenue,
	raydiumStableVenue,
	raydiumClmmVenue,
	raydiumClmmV2Venue,
	lifinityV2Venue,
	fluxbeamVenue,
	meteoraDlmmVenue,
	raydiumCpmmVenue,
	openbookVenue,
	whirlpoolV2Venue,
	phoenixVenue,
	obricV2Venue,
	sanctumWsolVenue,
	sarosVenue,
	stabbleVenue,
	sanctumRouterVenue,
	meteoraVaultDepositVenue,
	meteoraVaultWithdrawVenue,
	meteoraLstVenue,
	solfiVenue,
	zerofiVenue,
	pumpAmmBuyVenue,
	pumpAmmSellVenue,
	perpetualsAddVenue,
	perpetualsRemoveVenue,
	perpetualsSwapVenue,
	raydiumLaunchpadVenue,
	letsBonkFunVenue,
	woofiVenue,
	meteoraDbcVenue,
	meteoraDlmmSwap2Venue,
	meteoraDbc2Venue,
	goosefxVenue,
	sarosDlmmVenue,
	manifestVenue,
	byrealVenue,
	pancakeVenue,
	pancakeV2Venue,
	tesseraVenue,
}

// Registry maps venue ids to their codecs. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	venues map[ID]*Venue
	logger *zap.Logger
}

// NewRegistry builds the registry of supported venues.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	venues := make(map[ID]*Venue, len(supported))
	for _, v := range supported {
		venues[v.ID] = v
	}
	return &Registry{venues: venues, logger: logger}
}

// Resolve returns the venue for id. Unknown and unsupported ids fail with
// ErrUnsupportedVenue.
func (r *Registry) Resolve(id ID) (*Venue, error) {
	v, ok := r.venues[id]
	if !ok {
		r.logger.Debug("venue unsupported", zap.Uint8("id", uint8(id)), zap.Stringer("venue", id))
		return nil, fmt.Errorf("%s: %w", id, fault.ErrUnsupportedVenue)
	}
	r.logger.Debug("venue resolved", zap.Stringer("venue", id), zap.Stringer("program", v.Program))
	return v, nil
}

// Supports reports whether id resolves.
func (r *Registry) Supports(id ID) bool {
	_, ok := r.venues[id]
	return ok
}

// Supported lists the supported ids in ascending order.
func (r *Registry) Supported() []ID {
	out := make([]ID, 0, len(r.venues))
	for id := range r.venues {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Decoded is a payload decoded back into named fields.
type Decoded struct {
	Venue  ID
	Layout codec.Layout
	Values []*big.Int
}

// Field returns the decoded value of the named field.
func (d Decoded) Field(name string) (*big.Int, bool) {
	i := d.Layout.Index(name)
	if i < 0 {
		return nil, false
	}
	return d.Values[i], true
}

// Decode parses payload with the first of the venue's layouts whose
// selector and size match.
func (r *Registry) Decode(id ID, payload []byte) (Decoded, error) {
	v, err := r.Resolve(id)
	if err != nil {
		return Decoded{}, err
	}
	var errs []error
	for _, layout := range v.Layouts() {
		values, err := layout.Decode(payload)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", layout.Name, err))
			continue
		}
		return Decoded{Venue: id, Layout: layout, Values: values}, nil
	}
	return Decoded{}, fmt.Errorf("%s: %w", id, errors.Join(errs...))
}
