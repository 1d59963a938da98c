package enums

import (
	"fmt"
	"strings"
)

type Interest string

const (
	InterestExercise Interest = "exercise"
	InterestMovie    Interest = "movie"
	InterestReading  Interest = "reading"
	InterestFood     Interest = "food"
	InterestTravel   Interest = "travel"
	InterestMusic    Interest = "music"
	InterestCafe     Interest = "cafe"
	InterestGame     Interest = "game"
	InterestPet      Interest = "pet"
	InterestPhoto    Interest = "photo"
	InterestCooking  Interest = "cooking"
	InterestDrink    Interest = "drink"
	InterestSports   Interest = "sports"
	InterestCulture  Interest = "culture"
	InterestSelfDev  Interest = "selfdev"
)

// AllInterests returns the catalog in display order.
func AllInterests() []Interest {
	return []Interest{
		InterestExercise,
		InterestMovie,
		InterestReading,
		InterestFood,
		InterestTravel,
		InterestMusic,
		InterestCafe,
		InterestGame,
		InterestPet,
		InterestPhoto,
		InterestCooking,
		InterestDrink,
		InterestSports,
		InterestCulture,
		InterestSelfDev,
	}
}

func ParseInterest(raw string) (Interest, error) {
	i := Interest(strings.ToLower(strings.TrimSpace(raw)))
	if !i.Valid() {
		return "", fmt.Errorf("interest %q: %w", raw, ErrUnknownValue)
	}
	return i, nil
}

func (i Interest) Valid() bool {
	return i.Label() != ""
}

func (i Interest) Label() string {
	switch i {
	case InterestExercise:
		return "🏃 운동/헬스"
	case InterestMovie:
		return "🎬 영화/넷플릭스"
	case InterestReading:
		return "📚 독서"
	case InterestFood:
		return "🍽️ 맛집탐방"
	case InterestTravel:
		return "✈️ 여행"
	case InterestMusic:
		return "🎵 음악/공연"
	case InterestCafe:
		return "☕ 카페"
	case InterestGame:
		return "🎮 게임"
	case InterestPet:
		return "🐶 반려동물"
	case InterestPhoto:
		return "📷 사진"
	case InterestCooking:
		return "🍳 요리"
	case InterestDrink:
		return "🍷 술/와인"
	case InterestSports:
		return "⚽ 스포츠관람"
	case InterestCulture:
		return "🎨 전시/문화"
	case InterestSelfDev:
		return "💪 자기계발"
	}
	return ""
}

// Rank is the catalog position, used to serialize sets in a stable order.
func (i Interest) Rank() int {
	for idx, item := range AllInterests() {
		if item == i {
			return idx
		}
	}
	return -1
}
