package scheme

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yojana-mitra/server/internal/agent/model"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

// Catalog is the read-only scheme collection loaded once at startup. It is
// safe to share across sessions.
type Catalog struct {
	schemes []Scheme
}

// Schemes returns the catalog entries in load order.
func (c *Catalog) Schemes() []Scheme {
	return c.schemes
}

// Len returns the number of schemes in the catalog.
func (c *Catalog) Len() int {
	return len(c.schemes)
}

// Load reads a catalog from a JSON file of the form {"schemes": [...]}.
// Malformed entries are skipped; a missing or unreadable file falls back to
// the built-in default catalog, so the result is never empty.
func Load(path string) *Catalog {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logx.Warn().Err(err).Str("path", path).Msg("scheme catalog not readable, using default catalog")
		return Default()
	}

	var payload struct {
		Schemes []json.RawMessage `json:"schemes"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		logx.Warn().Err(err).Str("path", path).Msg("scheme catalog not parseable, using default catalog")
		return Default()
	}

	schemes := make([]Scheme, 0, len(payload.Schemes))
	for i, entry := range payload.Schemes {
		var s Scheme
		if err := json.Unmarshal(entry, &s); err != nil {
			logx.Warn().Err(err).Int("index", i).Msg("skipping malformed scheme entry")
			continue
		}
		if s.ID == "" {
			logx.Warn().Int("index", i).Msg("skipping scheme entry without id")
			continue
		}
		schemes = append(schemes, s)
	}
	if len(schemes) == 0 {
		logx.Warn().Str("path", path).Msg("scheme catalog empty after parsing, using default catalog")
		return Default()
	}

	logx.Info().Int("schemes", len(schemes)).Str("path", path).Msg("loaded scheme catalog")
	return &Catalog{schemes: schemes}
}

// Document flattens a scheme into the text indexed for semantic search.
func (s *Scheme) Document() string {
	doc := s.NameHI + ". " + s.DescriptionHI
	for _, k := range s.Keywords {
		doc += " " + k
	}
	return doc
}

func (s *Scheme) String() string {
	return fmt.Sprintf("%s (%s)", s.NameEN, s.ID)
}

// Default returns the built-in catalog used when no catalog file is
// configured or readable.
func Default() *Catalog {
	return &Catalog{schemes: []Scheme{
		{
			ID:            "pm_kisan",
			NameEN:        "PM-KISAN",
			NameHI:        "प्रधानमंत्री किसान सम्मान निधि",
			DescriptionEN: "Income support of Rs 6,000 per year for farmer families",
			DescriptionHI: "किसानों को प्रति वर्ष ₹6,000 की वित्तीय सहायता",
			Ministry:      "Ministry of Agriculture",
			SchemeType:    "central",
			Eligibility: Eligibility{
				MaxLandHolding: model.Ptr(5.0),
				Categories:     []model.Category{model.CategoryGeneral, model.CategorySC, model.CategoryST, model.CategoryOBC, model.CategoryEWS},
			},
			BenefitsHI:        "प्रति वर्ष ₹6,000 तीन किस्तों में",
			RequiredDocuments: []string{"आधार कार्ड", "बैंक खाता", "भूमि रिकॉर्ड"},
			HowToApplyHI:      "नजदीकी CSC केंद्र या pmkisan.gov.in पर आवेदन करें",
			Keywords:          []string{"किसान", "खेती", "कृषि", "farmer", "kisan"},
		},
		{
			ID:            "pm_awas_gramin",
			NameEN:        "PM Awas Yojana (Gramin)",
			NameHI:        "प्रधानमंत्री आवास योजना (ग्रामीण)",
			DescriptionEN: "Financial assistance for pucca houses in rural areas",
			DescriptionHI: "ग्रामीण क्षेत्रों में पक्के मकान के लिए वित्तीय सहायता",
			Ministry:      "Ministry of Rural Development",
			SchemeType:    "central",
			Eligibility: Eligibility{
				Categories:  []model.Category{model.CategorySC, model.CategoryST, model.CategoryOBC, model.CategoryEWS},
				RequiresBPL: model.Ptr(true),
				MaxIncome:   model.Ptr(300000.0),
			},
			BenefitsHI:        "पक्का मकान बनाने के लिए ₹1.20 लाख से ₹1.30 लाख",
			RequiredDocuments: []string{"आधार कार्ड", "BPL कार्ड", "बैंक खाता"},
			HowToApplyHI:      "ग्राम पंचायत या pmayg.nic.in पर आवेदन करें",
			Keywords:          []string{"मकान", "घर", "आवास", "housing", "awas"},
		},
		{
			ID:            "ayushman_bharat",
			NameEN:        "Ayushman Bharat PM-JAY",
			NameHI:        "आयुष्मान भारत प्रधानमंत्री जन आरोग्य योजना",
			DescriptionEN: "Health insurance cover of Rs 5 lakh per family per year",
			DescriptionHI: "गरीब परिवारों के लिए स्वास्थ्य बीमा योजना",
			Ministry:      "Ministry of Health",
			SchemeType:    "central",
			Eligibility: Eligibility{
				Categories: []model.Category{model.CategorySC, model.CategoryST, model.CategoryOBC, model.CategoryEWS},
				MaxIncome:  model.Ptr(500000.0),
			},
			BenefitsHI:        "प्रति परिवार प्रति वर्ष ₹5 लाख तक का स्वास्थ्य बीमा",
			RequiredDocuments: []string{"आधार कार्ड", "राशन कार्ड"},
			HowToApplyHI:      "नजदीकी CSC केंद्र या pmjay.gov.in पर आवेदन करें",
			Keywords:          []string{"स्वास्थ्य", "बीमा", "इलाज", "अस्पताल", "health"},
		},
		{
			ID:            "pm_ujjwala",
			NameEN:        "PM Ujjwala Yojana",
			NameHI:        "प्रधानमंत्री उज्ज्वला योजना",
			DescriptionEN: "Free LPG connections for women from poor households",
			DescriptionHI: "गरीब महिलाओं को मुफ्त LPG कनेक्शन",
			Ministry:      "Ministry of Petroleum",
			SchemeType:    "central",
			Eligibility: Eligibility{
				Gender:      []model.Gender{model.GenderFemale},
				MinAge:      model.Ptr(18),
				RequiresBPL: model.Ptr(true),
			},
			BenefitsHI:        "मुफ्त LPG कनेक्शन और पहला सिलेंडर मुफ्त",
			RequiredDocuments: []string{"आधार कार्ड", "BPL कार्ड", "बैंक खाता"},
			HowToApplyHI:      "नजदीकी LPG वितरक से संपर्क करें",
			Keywords:          []string{"गैस", "रसोई", "महिला", "LPG", "gas"},
		},
		{
			ID:            "sukanya_samriddhi",
			NameEN:        "Sukanya Samriddhi Yojana",
			NameHI:        "सुकन्या समृद्धि योजना",
			DescriptionEN: "Savings scheme for the girl child",
			DescriptionHI: "बालिकाओं के लिए बचत योजना",
			Ministry:      "Ministry of Finance",
			SchemeType:    "central",
			Eligibility: Eligibility{
				Gender:     []model.Gender{model.GenderFemale},
				MaxAge:     model.Ptr(10),
				Categories: []model.Category{model.CategoryGeneral, model.CategorySC, model.CategoryST, model.CategoryOBC, model.CategoryEWS},
			},
			BenefitsHI:        "उच्च ब्याज दर और कर लाभ",
			RequiredDocuments: []string{"बालिका का जन्म प्रमाण पत्र", "माता-पिता का आधार"},
			HowToApplyHI:      "किसी भी पोस्ट ऑफिस या बैंक में खाता खोलें",
			Keywords:          []string{"बेटी", "बालिका", "बचत", "girl", "savings"},
		},
		{
			ID:            "pm_shram_yogi",
			NameEN:        "PM Shram Yogi Maan-dhan",
			NameHI:        "प्रधानमंत्री श्रम योगी मान-धन",
			DescriptionEN: "Pension scheme for unorganised sector workers",
			DescriptionHI: "असंगठित क्षेत्र के श्रमिकों के लिए पेंशन योजना",
			Ministry:      "Ministry of Labour",
			SchemeType:    "central",
			Eligibility: Eligibility{
				MinAge:     model.Ptr(18),
				MaxAge:     model.Ptr(40),
				MaxIncome:  model.Ptr(180000.0),
				Categories: []model.Category{model.CategoryGeneral, model.CategorySC, model.CategoryST, model.CategoryOBC, model.CategoryEWS},
			},
			BenefitsHI:        "60 वर्ष के बाद ₹3,000 प्रति माह पेंशन",
			RequiredDocuments: []string{"आधार कार्ड", "बैंक खाता"},
			HowToApplyHI:      "नजदीकी CSC केंद्र पर आवेदन करें",
			Keywords:          []string{"पेंशन", "मजदूर", "श्रमिक", "pension", "worker"},
		},
	}}
}
