// Package seed loads the Moment Festival sample data into a store.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/moment-festival/momentd/internal/festival"
	"github.com/moment-festival/momentd/internal/storage"
)

// festivalName identifies the seeded festival for idempotence checks.
const festivalName = "Moment Festival"

// Run seeds the festival record, the DJ profile and the moment gallery.
// It is idempotent: records that already exist are left untouched.
func Run(ctx context.Context, store storage.Store) error {
	if err := seedFestival(ctx, store); err != nil {
		return fmt.Errorf("seed festival: %w", err)
	}
	if err := seedProfile(ctx, store); err != nil {
		return fmt.Errorf("seed dj profile: %w", err)
	}
	if err := seedMoments(ctx, store); err != nil {
		return fmt.Errorf("seed moments: %w", err)
	}
	return nil
}

func seedFestival(ctx context.Context, store storage.Store) error {
	existing, err := store.ListFestivals(ctx)
	if err != nil {
		return err
	}
	for _, f := range existing {
		if f.Name == festivalName {
			return nil
		}
	}
	return store.SaveFestival(ctx, sampleFestival())
}

func seedProfile(ctx context.Context, store storage.Store) error {
	_, err := store.GetDJProfile(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return store.SaveDJProfile(ctx, sampleProfile())
}

func seedMoments(ctx context.Context, store storage.Store) error {
	existing, err := store.ListMoments(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, m := range sampleMoments() {
		moment := m
		if err := store.SaveMoment(ctx, &moment); err != nil {
			return err
		}
	}
	return nil
}

func sampleFestival() *festival.Festival {
	return &festival.Festival{
		ID:          festival.NewID(),
		Name:        festivalName,
		Year:        2025,
		Location:    "奈良県天川村 フォレスト・イン洞川",
		Date:        "2025年7月26日-27日",
		Description: "自然と電子音楽が織りなす至福の瞬間。『今、この瞬間』へピントを合わせる音楽体験。",
		VenueInfo: map[string]any{
			"name":     "フォレスト・イン洞川",
			"address":  "奈良県天川村",
			"features": []any{"神聖な自然環境", "温泉街", "キャンプ場", "清流"},
			"access":   "関西からアクセス良好な秘境の地",
		},
		SoundSystem: map[string]any{
			"primary":     "Alcons Audio",
			"secondary":   "Function One",
			"description": "プロ仕様ラインアレイスピーカーによる圧倒的な音質体験",
		},
		FamilyServices: []map[string]any{
			{"name": "キッズエリア", "description": "安全に配慮した専用エリア", "icon": "👶"},
			{"name": "こどもごはん", "description": "栄養バランスを考慮したメニュー", "icon": "🍱"},
			{"name": "保育士常駐", "description": "資格を持つスタッフが常駐", "icon": "👩‍⚕️"},
			{"name": "ワークショップ", "description": "多彩なアクティビティ", "icon": "🎨"},
		},
		TicketInfo: map[string]any{
			"early_bird": map[string]any{"price": 15000, "description": "早割チケット"},
			"regular":    map[string]any{"price": 18000, "description": "一般チケット"},
			"vip":        map[string]any{"price": 35000, "description": "VIP体験チケット"},
			"family":     map[string]any{"price": 40000, "description": "ファミリーパック（大人2名+子供2名）"},
		},
		CreatedAt: festival.Now(),
	}
}

func sampleProfile() *festival.DJProfile {
	return &festival.DJProfile{
		ID:          festival.NewID(),
		Name:        "Mike Senoh",
		StageName:   "DJ Senoh",
		Location:    "大阪",
		MusicStyles: []string{"Psytrance", "Techno", "Electronic Music"},
		CareerStart: 2004,
		Bio:         "関西〜全国へとその場の空気感を大切にしたプレイが持ち味。Moment Festivalの主催者として、奈良県天川村での野外フェスティバルを成功に導き、家族も参加できる新しい形の音楽体験を提案し続けている。",
		Philosophy: map[string]any{
			"meditation": map[string]any{
				"title":       "瞑想的体験",
				"description": "音楽を通じて深い集中状態へと導き、内なる平静を見つける",
				"icon":        "🧘",
			},
			"awareness": map[string]any{
				"title":       "瞬間の認識",
				"description": "今この瞬間の価値を意識し、時間の流れに敏感になる",
				"icon":        "👁️",
			},
			"permanence": map[string]any{
				"title":       "永続的価値",
				"description": "一瞬の体験をNFTとして記録し、未来へと継承する",
				"icon":        "♾️",
			},
		},
		Timeline: []map[string]any{
			{"year": 2004, "event": "大阪のクラブ「exodus」オープニングでDJデビュー"},
			{"year": "2004-2014", "event": "関西クラブシーンでPsytranceからTechnoまで幅広く活動"},
			{"year": "2014-2020", "event": "全国各地のフェスティバル出演・イベント主催活動を拡大"},
			{"year": 2021, "event": "Moment Festivalを奈良県天川村で初開催"},
			{"year": "2021-2025", "event": "Moment Festival拡大・音響システム強化・国際的アーティスト招聘"},
			{"year": "2024-2025", "event": "DJ活動20周年 & Moment Festival 5周年記念"},
		},
		SocialLinks: map[string]string{
			"soundcloud": "@djsenoh",
			"facebook":   "DJ Senoh Official",
			"instagram":  "@moment_jp",
			"twitter":    "@moment_jp",
		},
		CreatedAt: festival.Now(),
	}
}

func sampleMoments() []festival.NFTMoment {
	return []festival.NFTMoment{
		{
			ID:              festival.NewID(),
			Title:           "Sunrise Moment #001",
			Description:     "天川村の神聖な朝日とPsytranceが融合した瞬間",
			ImageBase64:     "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iMzAwIiBoZWlnaHQ9IjMwMCIgdmlld0JveD0iMCAwIDMwMCAzMDAiIGZpbGw9Im5vbmUiIHhtbG5zPSJodHRwOi8vd3d3LnczLm9yZy8yMDAwL3N2ZyI+CjxyZWN0IHdpZHRoPSIzMDAiIGhlaWdodD0iMzAwIiBmaWxsPSJibGFjayIvPgo8Y2lyY2xlIGN4PSIxNTAiIGN5PSIxNTAiIHI9IjUwIiBmaWxsPSJ3aGl0ZSIvPgo8dGV4dCB4PSIxNTAiIHk9IjIyMCIgZmlsbD0id2hpdGUiIHRleHQtYW5jaG9yPSJtaWRkbGUiIGZvbnQtZmFtaWx5PSJBcmlhbCIgZm9udC1zaXplPSIxOCI+U3VucmlzZSAjMDAxPC90ZXh0Pgo8L3N2Zz4K",
			MomentTimestamp: "2024-07-26T06:30:00Z",
			Rarity:          festival.RarityLegendary,
			Attributes:      map[string]any{"location": "天川村", "genre": "Psytrance", "time": "Sunrise"},
			CreatedAt:       festival.Now(),
		},
		{
			ID:              festival.NewID(),
			Title:           "Forest Echo #002",
			Description:     "森の響きと電子音の完璧な調和",
			ImageBase64:     "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iMzAwIiBoZWlnaHQ9IjMwMCIgdmlld0JveD0iMCAwIDMwMCAzMDAiIGZpbGw9Im5vbmUiIHhtbG5zPSJodHRwOi8vd3d3LnczLm9yZy8yMDAwL3N2ZyI+CjxyZWN0IHdpZHRoPSIzMDAiIGhlaWdodD0iMzAwIiBmaWxsPSIjMTExIi8+CjxwYXRoIGQ9Ik0xMDAgMTAwIEwyMDAgMTAwIEwxNTAgMjAwIFoiIGZpbGw9IndoaXRlIi8+Cjx0ZXh0IHg9IjE1MCIgeT0iMjUwIiBmaWxsPSJ3aGl0ZSIgdGV4dC1hbmNob3I9Im1pZGRsZSIgZm9udC1mYW1pbHk9IkFyaWFsIiBmb250LXNpemU9IjE2Ij5Gb3Jlc3QgRWNobyAjMDAyPC90ZXh0Pgo8L3N2Zz4K",
			MomentTimestamp: "2024-07-26T22:15:00Z",
			Rarity:          festival.RarityRare,
			Attributes:      map[string]any{"location": "天川村", "genre": "Electronic", "time": "Night"},
			CreatedAt:       festival.Now(),
		},
		{
			ID:              festival.NewID(),
			Title:           "Unity Flow #003",
			Description:     "家族と音楽が一つになった特別な瞬間",
			ImageBase64:     "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iMzAwIiBoZWlnaHQ9IjMwMCIgdmlld0JveD0iMCAwIDMwMCAzMDAiIGZpbGw9Im5vbmUiIHhtbG5zPSJodHRwOi8vd3d3LnczLm9yZy8yMDAwL3N2ZyI+CjxyZWN0IHdpZHRoPSIzMDAiIGhlaWdodD0iMzAwIiBmaWxsPSIjMDAwIi8+CjxjaXJjbGUgY3g9IjEwMCIgY3k9IjEwMCIgcj0iMjAiIGZpbGw9IndoaXRlIi8+CjxjaXJjbGUgY3g9IjIwMCIgY3k9IjEwMCIgcj0iMjAiIGZpbGw9IndoaXRlIi8+CjxjaXJjbGUgY3g9IjEwMCIgY3k9IjIwMCIgcj0iMjAiIGZpbGw9IndoaXRlIi8+CjxjaXJjbGUgY3g9IjIwMCIgY3k9IjIwMCIgcj0iMjAiIGZpbGw9IndoaXRlIi8+Cjx0ZXh0IHg9IjE1MCIgeT0iMjcwIiBmaWxsPSJ3aGl0ZSIgdGV4dC1hbmNob3I9Im1pZGRsZSIgZm9udC1mYW1pbHk9IkFyaWFsIiBmb250LXNpemU9IjE2Ij5Vbml0eSBGbG93ICMwMDM8L3RleHQ+Cjwvc3ZnPgo=",
			MomentTimestamp: "2024-07-27T16:00:00Z",
			Rarity:          festival.RarityCommon,
			Attributes:      map[string]any{"location": "天川村", "genre": "Ambient", "time": "Afternoon"},
			CreatedAt:       festival.Now(),
		},
	}
}
