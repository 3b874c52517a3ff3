package venue

import "github.com/gagliardetto/solana-go"

// Program ids of the supported venues (mainnet).
var (
	SaberStableSwapProgram  = solana.MustPublicKeyFromBase58("SSwpkEEcbUqx4vtoEByFjSkhKdCT862DNVb52nZg1UZ")
	WhirlpoolProgram        = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")
	MeteoraDynamicProgram   = solana.MustPublicKeyFromBase58("Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB")
	MeteoraVaultProgram     = solana.MustPublicKeyFromBase58("24Uqj9JCLxUeoC3hGfh5W3s9FM9uCHDS2SG3LYwBpyTi")
	MeteoraDlmmProgram      = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")
	MeteoraDbcProgram       = solana.MustPublicKeyFromBase58("dbcij3LWUppWqq96dh6gJWwBifmcGfLSB5D4DuSMaqN")
	RaydiumAmmProgram       = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	RaydiumStableProgram    = solana.MustPublicKeyFromBase58("5quBtoiQqxF9Jv6KYKctB59NT3gtJD2Y65kdnB1Uev3h")
	RaydiumClmmProgram      = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	RaydiumCpmmProgram      = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	RaydiumLaunchpadProgram = solana.MustPublicKeyFromBase58("LanMV9sAd7wArD4vJFi2qDdfnVhFxYSUg6eADduJ3uj")
	LifinityV2Program       = solana.MustPublicKeyFromBase58("2wT8Yq49kHgDzXuPxZSaeLaH1qbmGXtEyPy64bL7aD3c")
	FluxBeamProgram         = solana.MustPublicKeyFromBase58("FLUXubRmkEi2q6K3Y9kBPg9248ggaZVsoSFhtJHSrm1X")
	OpenBookV2Program       = solana.MustPublicKeyFromBase58("opnb2LAfJYbRMAHHvqjCwQxanZn7ReEHp1k81EohpZb")
	PhoenixProgram          = solana.MustPublicKeyFromBase58("PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY")
	ObricV2Program          = solana.MustPublicKeyFromBase58("obriQD1zbpyLz95G5n7nJe6a4DPjpFwa5XYPoNm113y")
	SanctumInfinityProgram  = solana.MustPublicKeyFromBase58("5ocnV1qiCgaQR8Jb8xWnVbApfaygJ8tNoZfgPwsgx9kx")
	SarosProgram            = solana.MustPublicKeyFromBase58("SSwapUtytfBdBn1b9NUGG6foMVPtcWgpRU32HToDUZr")
	SarosDlmmProgram        = solana.MustPublicKeyFromBase58("1qbkdrr3z4ryLA7pZykqxvxWPoeifcVKo6ZG9CfkvVE")
	StabbleStableProgram    = solana.MustPublicKeyFromBase58("swapNyd8XiQwJ6ianp9snpu4brUqFxadzvHebnAXjJZ")
	StabbleVaultProgram     = solana.MustPublicKeyFromBase58("vo1tWgqZMjG61Z2T9qUaMYKqZ75CYzMuaZ2LZP1n7HV")
	SolfiProgram            = solana.MustPublicKeyFromBase58("SoLFiHG9TfgtdUXUjWAxi3LtvYuFyDLVhBWxdMZxyCe")
	ZerofiProgram           = solana.MustPublicKeyFromBase58("ZERor4xhbUycZ6gb9ntrhqscUcZmAbQDjEAtCf4hbZY")
	PumpAmmProgram          = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")
	PerpetualsProgram       = solana.MustPublicKeyFromBase58("PERPHjGBqRHArX4DySjwM6UJHiR3sWAatqfdBS2qQJu")
	WoofiProgram            = solana.MustPublicKeyFromBase58("WooFif76YGRNjk1pA8wCsN67aQsD9f9iLsz4NcJ1AVb")
	GooseFXGammaProgram     = solana.MustPublicKeyFromBase58("GAMMA7meSFWaBXF25oSUgmGRwaW6sCMFLmBNiMSdbHVT")
	ManifestProgram         = solana.MustPublicKeyFromBase58("MNFSTqtC93rEfYHB6hF82sKdZpUDFWkViLByLd1k1Ms")
	ByrealClmmProgram       = solana.MustPublicKeyFromBase58("REALQqNEomY6cQGZJUGwywTBD2UmDT32rZcNnfxQ5N2")
	PancakeSwapV3Program    = solana.MustPublicKeyFromBase58("HpNfyc2Saw7RKkQd8nEL4khUcuPhQ7WwY1B2qjx8jxFq")
	TesseraProgram          = solana.MustPublicKeyFromBase58("TessVdML9pBGgG9yGks7o4HewRaXVAMuoVj4x83GLQH")
	OpenBookV1Program       = solana.MustPublicKeyFromBase58("srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX")
	MemoProgram             = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
	Token2022Program        = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	AssociatedTokenProgram  = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	InstructionsSysvar      = solana.MustPublicKeyFromBase58("Sysvar1nstructions1111111111111111111111111")
	WrappedSolMint          = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	UsdcMint                = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
)
