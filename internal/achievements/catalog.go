// Package achievements holds the unlock catalog and a tracker that
// persists grants for one player profile.
package achievements

// Achievement is one catalog entry.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Hint        string `json:"hint"`
}

// Catalog lists every achievement in display order.
var Catalog = []Achievement{
	{"first_win", "1ª Vitória", "Parabéns, você venceu sua primeira partida.",
		"O primeiro passo para a glória é simplesmente... vencer."},
	{"first_defeat", "1ª Derrota", "A vida é feita de derrotas... não desanima senão o jogo termina.",
		"Às vezes, para aprender a ganhar, é preciso primeiro... perder."},
	{"versatrix_loss", "Ela está tão na sua", "Será que a Versatrix realmente queria te vencer?",
		"Será que uma derrota para a rainha dourada é realmente uma derrota?"},
	{"speed_run", "Speed Run", "Vença uma partida em menos de 5 minutos.",
		"O tempo também é um adversário. Seja mais rápido que ele."},
	{"contravox_win", "!odatorreD!", "elen ethnasseretni ed adan met oãn euq rop otxet esse odnel opmet acrep oãN",
		"!avitxaleR .adiv à arap oçerp mu é otnemidnetnE"},
	{"versatrix_win", "O Início de um Segredo", "Você derrotou a Versatrix... Ela pode ter deixado algo para você.",
		"Uma vitória contra a Versatrix pode revelar mais do que apenas o caminho a seguir."},
	{"versatrix_card_collected", "Presente da Rainha", "Você encontrou e coletou a carta especial da Versatrix!",
		"A rainha dourada às vezes se esconde à vista de todos, mesmo antes do jogo começar."},
	{"reversum_win", "Novo Rei!", "Ele se achava o mais poderoso, mas existe outro Rei agora.",
		"Derrube a coroa do tirano para provar quem realmente manda."},
	{"tutorial_win", "Vencendo no Tutorial", "Aprender e ganhar no tutorial é para poucos",
		"Até mesmo a primeira lição pode ser uma vitória decisiva."},
	{"xael_win", "Vencendo o Criador", "Venceu quem criou o jogo num duelo especial",
		"Dizem que o Criador só aparece quando o caos é... Total."},
	{"quick_duel_win", "Duelo rápida conquistada!", "Vencer uma partida rápida também é um mérito!",
		"Prove seu valor em uma partida rápida e sem complicações."},
	{"true_end_beta", "Não é o final verdadeiro", "Você venceu... mas ainda tem um desafio maior.",
		"Você derrotou um rei... mas não o mestre por trás das sombras."},
	{"true_end_final", "Final Final", "Parabéns, depois me diz como conseguiu vencer.",
		"Para encarar a escuridão final, você precisará de uma aliança inesperada."},
	{"inversus_win", "100% do jogo", "Você derrotou o reflexo sombrio do Reversus. O segredo está no logo do jogo.",
		"O reflexo sombrio do Reversus aguarda. A vitória final revela este caminho."},
	{"120%_unlocked", "120% Desbloqueado!", "O segredo do segredo, a senha é \"Final\"",
		"Quando o narrador se cansa de contar a história, ele entra nela. Uma vitória sobre o reflexo abre esta porta."},
}

var byID = func() map[string]Achievement {
	m := make(map[string]Achievement, len(Catalog))
	for _, a := range Catalog {
		m[a.ID] = a
	}
	return m
}()

// Lookup returns the catalog entry for id.
func Lookup(id string) (Achievement, bool) {
	a, ok := byID[id]
	return a, ok
}

// Entry is a catalog line as shown to a player. Locked entries carry only
// their hint.
type Entry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Hint        string `json:"hint,omitempty"`
	Unlocked    bool   `json:"unlocked"`
}

// List renders the catalog against a set of unlocks. A nil sink lists
// everything as locked.
func List(sink interface{ Has(id string) bool }) []Entry {
	entries := make([]Entry, 0, len(Catalog))
	for _, a := range Catalog {
		e := Entry{ID: a.ID, Name: a.Name}
		if sink != nil && sink.Has(a.ID) {
			e.Unlocked = true
			e.Description = a.Description
		} else {
			e.Hint = a.Hint
		}
		entries = append(entries, e)
	}
	return entries
}
