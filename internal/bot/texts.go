package bot

import "github.com/vadiminshakov/chartbot/internal/domain"

// Texts localized message catalog. Fields holding format verbs are rendered
// with fmt.Sprintf and documented with their arguments.
type Texts struct {
	SelectLanguage string
	Welcome        string
	// Selected: coin name.
	Selected string
	// LoadingChart: coin name, timeframe label.
	LoadingChart string
	// ChartCaption: coin name, timeframe label, price, 24h change, source.
	ChartCaption string
	// ErrorChart: coin name, timeframe label.
	ErrorChart   string
	ErrorGeneral string
	// LoadingAI: coin name.
	LoadingAI      string
	ErrorAI        string
	AnotherCoin    string
	AvailableCoins string
	HandleText     string
	// LanguageSet: language name.
	LanguageSet string
	AIHeader    string
	// AnalysisSection: analysis text.
	AnalysisSection string
	// RecommendationSection: action, target price, target date.
	RecommendationSection string
	// RawAnalysis: model reply.
	RawAnalysis     string
	DonationThanks  string
	DonationSuccess string

	ViewCoinsButton  string
	DonateButton     string
	SupportUsButton  string
	AnotherButton    string
	CalendarButton   string
	AnalysisButton   string
	// StarsButton: star amount.
	StarsButton   string
	OneStarButton string

	// CoinSelectedToast: coin name.
	CoinSelectedToast string
	CoinUnavailable   string
	OptionUnavailable string
	// InvoiceSent: star amount.
	InvoiceSent  string
	InvoiceError string
	// PaymentDeclined is shown by Telegram when a pre-checkout is rejected.
	PaymentDeclined string

	InvoiceTitle string
	// InvoiceDescription: star amount.
	InvoiceDescription string
	// InvoiceLabel: star amount.
	InvoiceLabel string
}

var catalog = map[domain.Language]Texts{
	domain.LanguageEnglish: {
		SelectLanguage:        "Please select your language:",
		Welcome:               "🚀 Welcome to the Crypto Tracker Bot!\n\n📋 Please select a cryptocurrency from the list below:\n\n💡 Tip: Click on any coin to view its performance over different timeframes!",
		Selected:              "🔹 You selected: <b>%s</b>\n\n📊 Choose a timeframe to view performance or AI analysis:",
		LoadingChart:          "⏳ Loading chart for <b>%s</b> (%s)...\n\nThis may take a moment...",
		ChartCaption:          "📈 Candlestick Chart for <b>%s</b>\n⏰ Timeframe: %s\n💰 Current Price: %s USD\n📈 24h Change: %s%%\n📊 Source: %s (with Volume and SMA 20)",
		ErrorChart:            "❌ Sorry, couldn't load the chart for <b>%s</b> (%s).\n\nPlease try again later.",
		ErrorGeneral:          "❌ An error occurred while loading the chart.\n\nPlease try again later.",
		LoadingAI:             "⏳ Performing AI analysis for <b>%s</b>...\n\nThis may take a moment...",
		ErrorAI:               "❌ An error occurred during AI analysis.\n\nPlease try again later.",
		AnotherCoin:           "✨ Would you like to check another cryptocurrency?",
		AvailableCoins:        "🔹 Here are the available cryptocurrencies:",
		HandleText:            "🤖 Please use the buttons below to select a cryptocurrency:",
		LanguageSet:           "Language set to %s",
		AIHeader:              "🤖 <b>AI Analysis Report</b>\n",
		AnalysisSection:       "\n📊 <b>Market Analysis:</b>\n%s",
		RecommendationSection: "\n\n💡 <b>Trading Recommendation:</b>\n🔹 Action: <b>%s</b>\n🔹 Target Price: <b>$%s</b>\n🔹 Target Date: <b>%s</b>",
		RawAnalysis:           "<b>AI Analysis:</b>\n\n%s",
		DonationThanks:        "⭐ Thank you for your support!\n\n💝 Your donation helps us keep this bot running and improving.\n\nYou can support us with Telegram Stars:",
		DonationSuccess:       "🎉 Thank you for your generous donation!\n\n💖 Your support means the world to us!",
		ViewCoinsButton:       "📊 View Coins",
		DonateButton:          "⭐ Donate",
		SupportUsButton:       "⭐ Support Us",
		AnotherButton:         "🔍 Check Another Coin",
		CalendarButton:        "📅 Add to Google Calendar",
		AnalysisButton:        "🤖 AI Analysis",
		StarsButton:           "⭐ %d Stars",
		OneStarButton:         "⭐ 1 Star",
		CoinSelectedToast:     "🎯 Selected: %s",
		CoinUnavailable:       "❌ Sorry, this coin is not available",
		OptionUnavailable:     "❌ Sorry, this option is not available",
		InvoiceSent:           "⭐ Payment request sent for %d stars!",
		InvoiceError:          "❌ Sorry, there was an error processing your donation request.",
		PaymentDeclined:       "Something went wrong. Please try again later.",
		InvoiceTitle:          "Support Crypto Tracker Bot",
		InvoiceDescription:    "Thank you for supporting our bot with %d Telegram Stars! Your contribution helps us maintain and improve the service.",
		InvoiceLabel:          "%d Telegram Stars",
	},
	domain.LanguagePersian: {
		SelectLanguage:        "لطفاً زبان خود را انتخاب کنید:",
		Welcome:               "🚀 به ربات ردیاب کریپتو خوش آمدید!\n\n📋 لطفاً یک ارز دیجیتال از لیست زیر انتخاب کنید:\n\n💡 نکته: روی هر کوین کلیک کنید تا عملکرد آن را در بازه‌های زمانی مختلف ببینید!",
		Selected:              "🔹 شما انتخاب کردید: <b>%s</b>\n\n📊 یک بازه زمانی برای مشاهده عملکرد یا تحلیل هوش مصنوعی انتخاب کنید:",
		LoadingChart:          "⏳ در حال بارگذاری نمودار برای <b>%s</b> (%s)...\n\nاین ممکن است کمی طول بکشد...",
		ChartCaption:          "📈 نمودار شمعی برای <b>%s</b>\n⏰ بازه زمانی: %s\n💰 قیمت فعلی: %s دلار\n📈 تغییر 24 ساعته: %s%%\n📊 منبع: %s (با حجم و SMA 20)",
		ErrorChart:            "❌ متأسفانه نتوانستیم نمودار را برای <b>%s</b> (%s) بارگذاری کنیم.\n\nلطفاً بعداً امتحان کنید.",
		ErrorGeneral:          "❌ خطایی در بارگذاری نمودار رخ داد.\n\nلطفاً بعداً امتحان کنید.",
		LoadingAI:             "⏳ در حال انجام تحلیل هوش مصنوعی برای <b>%s</b>...\n\nاین ممکن است کمی طول بکشد...",
		ErrorAI:               "❌ خطایی در تحلیل هوش مصنوعی رخ داد.\n\nلطفاً بعداً امتحان کنید.",
		AnotherCoin:           "✨ آیا مایلید ارز دیجیتال دیگری بررسی کنید؟",
		AvailableCoins:        "🔹 ارزهای دیجیتال موجود عبارتند از:",
		HandleText:            "🤖 لطفاً از دکمه‌های زیر برای انتخاب ارز دیجیتال استفاده کنید:",
		LanguageSet:           "زبان به %s تنظیم شد",
		AIHeader:              "🤖 <b>گزارش تحلیل هوش مصنوعی</b>\n",
		AnalysisSection:       "\n📊 <b>تحلیل بازار:</b>\n%s",
		RecommendationSection: "\n\n💡 <b>توصیه معاملاتی:</b>\n🔹 اقدام: <b>%s</b>\n🔹 قیمت هدف: <b>$%s</b>\n🔹 تاریخ هدف: <b>%s</b>",
		RawAnalysis:           "<b>تحلیل هوش مصنوعی:</b>\n\n%s",
		DonationThanks:        "⭐ از حمایت شما متشکریم!\n\n💝 کمک مالی شما به ما کمک می‌کند این ربات را فعال و بهتر نگه داریم.\n\nمی‌توانید با Telegram Stars از ما حمایت کنید:",
		DonationSuccess:       "🎉 از کمک سخاوتمندانه شما متشکریم!\n\n💖 حمایت شما برای ما بسیار ارزشمند است!",
		ViewCoinsButton:       "📊 مشاهده کوین‌ها",
		DonateButton:          "⭐ حمایت مالی",
		SupportUsButton:       "⭐ حمایت از ما",
		AnotherButton:         "🔍 بررسی کوین دیگر",
		CalendarButton:        "📅 افزودن به تقویم گوگل",
		AnalysisButton:        "🤖 تحلیل هوش مصنوعی",
		StarsButton:           "⭐ %d ستاره",
		OneStarButton:         "⭐ 1 ستاره",
		CoinSelectedToast:     "🎯 انتخاب شد: %s",
		CoinUnavailable:       "❌ متأسفانه این کوین در دسترس نیست",
		OptionUnavailable:     "❌ متأسفانه این گزینه در دسترس نیست",
		InvoiceSent:           "⭐ درخواست پرداخت برای %d ستاره ارسال شد!",
		InvoiceError:          "❌ متأسفانه در پردازش درخواست کمک مالی شما خطایی رخ داد.",
		PaymentDeclined:       "مشکلی پیش آمد. لطفاً بعداً امتحان کنید.",
		InvoiceTitle:          "حمایت از ربات ردیاب کریپتو",
		InvoiceDescription:    "از حمایت شما با %d ستاره تلگرام متشکریم! کمک شما به نگهداری و بهبود سرویس کمک می‌کند.",
		InvoiceLabel:          "%d ستاره تلگرام",
	},
	domain.LanguageArabic: {
		SelectLanguage:        "يرجى اختيار لغتك:",
		Welcome:               "🚀 مرحبا بك في بوت تتبع العملات المشفرة!\n\n📋 يرجى تحديد عملة مشفرة من القائمة أدناه:\n\n💡 نصيحة: انقر على أي عملة لعرض أدائها عبر فترات زمنية مختلفة!",
		Selected:              "🔹 لقد حددت: <b>%s</b>\n\n📊 اختر إطارًا زمنيًا لعرض الأداء أو تحليل الذكاء الاصطناعي:",
		LoadingChart:          "⏳ جاري تحميل الرسم البياني لـ <b>%s</b> (%s)...\n\nقد يستغرق هذا لحظة...",
		ChartCaption:          "📈 رسم بياني شمعي لـ <b>%s</b>\n⏰ الإطار الزمني: %s\n💰 السعر الحالي: %s دولار\n📈 التغيير في 24 ساعة: %s%%\n📊 المصدر: %s (مع الحجم و SMA 20)",
		ErrorChart:            "❌ عذرًا، لم نتمكن من تحميل الرسم البياني لـ <b>%s</b> (%s).\n\nيرجى المحاولة لاحقًا.",
		ErrorGeneral:          "❌ حدث خطأ أثناء تحميل الرسم البياني.\n\nيرجى المحاولة لاحقًا.",
		LoadingAI:             "⏳ جاري إجراء تحليل الذكاء الاصطناعي لـ <b>%s</b>...\n\nقد يستغرق هذا لحظة...",
		ErrorAI:               "❌ حدث خطأ أثناء تحليل الذكاء الاصطناعي.\n\nيرجى المحاولة لاحقًا.",
		AnotherCoin:           "✨ هل ترغب في التحقق من عملة مشفرة أخرى؟",
		AvailableCoins:        "🔹 إليك العملات المشفرة المتاحة:",
		HandleText:            "🤖 يرجى استخدام الأزرار أدناه لتحديد عملة مشفرة:",
		LanguageSet:           "تم تعيين اللغة إلى %s",
		AIHeader:              "🤖 <b>تقرير تحليل الذكاء الاصطناعي</b>\n",
		AnalysisSection:       "\n📊 <b>تحليل السوق:</b>\n%s",
		RecommendationSection: "\n\n💡 <b>التوصية التجارية:</b>\n🔹 الإجراء: <b>%s</b>\n🔹 السعر المستهدف: <b>$%s</b>\n🔹 التاريخ المستهدف: <b>%s</b>",
		RawAnalysis:           "<b>تحليل الذكاء الاصطناعي:</b>\n\n%s",
		DonationThanks:        "⭐ شكرا لدعمك!\n\n💝 تبرعك يساعدنا في الحفاظ على هذا البوت وتحسينه.\n\nيمكنك دعمنا بنجوم تيليجرام:",
		DonationSuccess:       "🎉 شكرا لتبرعك السخي!\n\n💖 دعمك يعني الكثير بالنسبة لنا!",
		ViewCoinsButton:       "📊 عرض العملات",
		DonateButton:          "⭐ تبرع",
		SupportUsButton:       "⭐ ادعمنا",
		AnotherButton:         "🔍 تحقق من عملة أخرى",
		CalendarButton:        "📅 أضف إلى تقويم جوجل",
		AnalysisButton:        "🤖 تحليل الذكاء الاصطناعي",
		StarsButton:           "⭐ %d نجوم",
		OneStarButton:         "⭐ 1 نجمة",
		CoinSelectedToast:     "🎯 تم التحديد: %s",
		CoinUnavailable:       "❌ عذرًا، هذه العملة غير متاحة",
		OptionUnavailable:     "❌ عذرًا، هذا الخيار غير متاح",
		InvoiceSent:           "⭐ تم إرسال طلب الدفع مقابل %d نجوم!",
		InvoiceError:          "❌ عذرًا، حدث خطأ أثناء معالجة طلب التبرع.",
		PaymentDeclined:       "حدث خطأ ما. يرجى المحاولة لاحقًا.",
		InvoiceTitle:          "ادعم بوت تتبع العملات المشفرة",
		InvoiceDescription:    "شكرا لدعمك لبوتنا بـ %d من نجوم تيليجرام! مساهمتك تساعدنا في صيانة الخدمة وتحسينها.",
		InvoiceLabel:          "%d نجوم تيليجرام",
	},
}

// TextsFor returns the catalog for lang, falling back to English.
func TextsFor(lang domain.Language) Texts {
	if t, ok := catalog[lang]; ok {
		return t
	}
	return catalog[domain.DefaultLanguage]
}
