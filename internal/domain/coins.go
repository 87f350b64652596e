package domain

var defaultCoins = []CoinRef{
	NewCoinRef("₿ Bitcoin (BTC)", "BTCUSDT"),
	NewCoinRef("⧫ Ethereum (ETH)", "ETHUSDT"),
	NewCoinRef("🔶 Binance Coin (BNB)", "BNBUSDT"),
	NewCoinRef("✕ Ripple (XRP)", "XRPUSDT"),
	NewCoinRef("₳ Cardano (ADA)", "ADAUSDT"),
	NewCoinRef("◉ Solana (SOL)", "SOLUSDT"),
	NewCoinRef("● Polkadot (DOT)", "DOTUSDT"),
	NewCoinRef("Ð Dogecoin (DOGE)", "DOGEUSDT"),
	NewCoinRef("🔺 Avalanche (AVAX)", "AVAXUSDT"),
	NewCoinRef("🔗 Chainlink (LINK)", "LINKUSDT"),
	NewCoinRef("Ł Litecoin (LTC)", "LTCUSDT"),
	NewCoinRef("🔷 Polygon (MATIC)", "MATICUSDT"),
	NewCoinRef("⚛ Cosmos (ATOM)", "ATOMUSDT"),
	NewCoinRef("💾 Filecoin (FIL)", "FILUSDT"),
	NewCoinRef("◆ Algorand (ALGO)", "ALGOUSDT"),
	NewCoinRef("★ Stellar (XLM)", "XLMUSDT"),
	NewCoinRef("🔴 Tron (TRX)", "TRXUSDT"),
	NewCoinRef("🔒 Monero (XMR)", "XMRUSDT"),
	NewCoinRef("⧫ Ethereum Classic (ETC)", "ETCUSDT"),
	NewCoinRef("✓ VeChain (VET)", "VETUSDT"),
	NewCoinRef("ℏ Hedera (HBAR)", "HBARUSDT"),
	NewCoinRef("∞ Internet Computer (ICP)", "ICPUSDT"),
	NewCoinRef("🦄 Uniswap (UNI)", "UNIUSDT"),
	NewCoinRef("🅰 Aptos (APT)", "APTUSDT"),
	NewCoinRef("🔵 Arbitrum (ARB)", "ARBUSDT"),
	NewCoinRef("🔴 Optimism (OP)", "OPUSDT"),
	NewCoinRef("⭕ Near Protocol (NEAR)", "NEARUSDT"),
	NewCoinRef("📚 Stacks (STX)", "STXUSDT"),
	NewCoinRef("⚔ Immutable (IMX)", "IMXUSDT"),
	NewCoinRef("🔷 Cronos (CRO)", "CROUSDT"),
	NewCoinRef("💎 Kaspa (KAS)", "KASUSDT"),
	NewCoinRef("🔢 Quant (QNT)", "QNTUSDT"),
	NewCoinRef("🎨 Render (RNDR)", "RNDRUSDT"),
	NewCoinRef("💉 Injective (INJ)", "INJUSDT"),
	NewCoinRef("🌊 Sui (SUI)", "SUIUSDT"),
	NewCoinRef("📊 The Graph (GRT)", "GRTUSDT"),
	NewCoinRef("θ Theta Network (THETA)", "THETAUSDT"),
	NewCoinRef("🏛 Maker (MKR)", "MKRUSDT"),
	NewCoinRef("⚡ Synthetix (SNX)", "SNXUSDT"),
	NewCoinRef("👻 Aave (AAVE)", "AAVEUSDT"),
	NewCoinRef("📱 EOS (EOS)", "EOSUSDT"),
	NewCoinRef("🎮 Axie Infinity (AXS)", "AXSUSDT"),
	NewCoinRef("🏖 The Sandbox (SAND)", "SANDUSDT"),
	NewCoinRef("🌐 Decentraland (MANA)", "MANAUSDT"),
	NewCoinRef("🔷 Tezos (XTZ)", "XTZUSDT"),
	NewCoinRef("🌊 Flow (FLOW)", "FLOWUSDT"),
	NewCoinRef("👻 Fantom (FTM)", "FTMUSDT"),
	NewCoinRef("🔶 Kava (KAVA)", "KAVAUSDT"),
	NewCoinRef("🔗 IOTA (IOTA)", "IOTAUSDT"),
	NewCoinRef("⚡ Zilliqa (ZIL)", "ZILUSDT"),
	NewCoinRef("🎮 Enjin Coin (ENJ)", "ENJUSDT"),
	NewCoinRef("🎪 Gala (GALA)", "GALAUSDT"),
	NewCoinRef("🌶 Chiliz (CHZ)", "CHZUSDT"),
	NewCoinRef("1️⃣ 1inch (1INCH)", "1INCHUSDT"),
	NewCoinRef("🏦 Compound (COMP)", "COMPUSDT"),
	NewCoinRef("📈 Curve DAO (CRV)", "CRVUSDT"),
	NewCoinRef("🍣 Sushi (SUSHI)", "SUSHIUSDT"),
	NewCoinRef("🥞 Pancakeswap (CAKE)", "CAKEUSDT"),
	NewCoinRef("🔁 Loopring (LRC)", "LRCUSDT"),
	NewCoinRef("🦉 Gnosis (GNO)", "GNOUSDT"),
	NewCoinRef("🛡 Zcash (ZEC)", "ZECUSDT"),
	NewCoinRef("💨 Dash (DASH)", "DASHUSDT"),
	NewCoinRef("🌊 Waves (WAVES)", "WAVESUSDT"),
	NewCoinRef("Q Qtum (QTUM)", "QTUMUSDT"),
	NewCoinRef("📦 Arweave (AR)", "ARUSDT"),
	NewCoinRef("🦁 Basic Attention (BAT)", "BATUSDT"),
	NewCoinRef("1️⃣ Harmony (ONE)", "ONEUSDT"),
	NewCoinRef("💚 Celo (CELO)", "CELOUSDT"),
	NewCoinRef("⚓ Ankr (ANKR)", "ANKRUSDT"),
	NewCoinRef("🤖 Fetch.ai (FET)", "FETUSDT"),
	NewCoinRef("🌊 Ocean Protocol (OCEAN)", "OCEANUSDT"),
	NewCoinRef("🎵 Band Protocol (BAND)", "BANDUSDT"),
	NewCoinRef("☁ Storj (STORJ)", "STORJUSDT"),
	NewCoinRef("💎 NEM (XEM)", "XEMUSDT"),
	NewCoinRef("🐦 Ravencoin (RVN)", "RVNUSDT"),
	NewCoinRef("🔷 ICON (ICX)", "ICXUSDT"),
	NewCoinRef("⚡ OMG Network (OMG)", "OMGUSDT"),
	NewCoinRef("🔷 Ontology (ONT)", "ONTUSDT"),
	NewCoinRef("🔥 WOO Network (WOO)", "WOOUSDT"),
	NewCoinRef("⚡ Skale (SKL)", "SKLUSDT"),
	NewCoinRef("💠 Coti (COTI)", "COTIUSDT"),
	NewCoinRef("🔊 Amp (AMP)", "AMPUSDT"),
	NewCoinRef("🔑 Civic (CVC)", "CVCUSDT"),
	NewCoinRef("💬 Status (SNT)", "SNTUSDT"),
	NewCoinRef("🤖 Golem (GLM)", "GLMUSDT"),
	NewCoinRef("📨 Request (REQ)", "REQUSDT"),
	NewCoinRef("⚡ Power Ledger (POWR)", "POWRUSDT"),
	NewCoinRef("😷 Mask Network (MASK)", "MASKUSDT"),
	NewCoinRef("🏰 My Neighbor Alice (ALICE)", "ALICEUSDT"),
	NewCoinRef("🦷 Dent (DENT)", "DENTUSDT"),
	NewCoinRef("🚀 Voyager (VGX)", "VGXUSDT"),
	NewCoinRef("🔷 Kyber Network (KNC)", "KNCUSDT"),
	NewCoinRef("♾ Perpetual Protocol (PERP)", "PERPUSDT"),
	NewCoinRef("🔢 Numeraire (NMR)", "NMRUSDT"),
	NewCoinRef("✨ Spell Token (SPELL)", "SPELLUSDT"),
	NewCoinRef("⚖ Balancer (BAL)", "BALUSDT"),
	NewCoinRef("🔺 Convex Finance (CVX)", "CVXUSDT"),
	NewCoinRef("💰 Yearn.finance (YFI)", "YFIUSDT"),
	NewCoinRef("📊 UMA (UMA)", "UMAUSDT"),
	NewCoinRef("📹 Livepeer (LPT)", "LPTUSDT"),
}
