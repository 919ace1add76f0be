package scale

import "jfk-emergence-service/internal/domain"

// JFKID is the catalog key of the JFK Emergence Scale.
const JFKID = "jfk"

var jfk = domain.ScaleDefinition{
	ID:          JFKID,
	Title:       "JFK Emergence Scale",
	Description: "Escala de Emergência de Consciência (Máx. 20 pts)",
	Items: []domain.Item{
		{ID: "arousal", Label: "Arousal (Estado de Alerta)", MaxPoints: 4, Options: []domain.Option{
			{Text: "4 – Alerta sustentado e responsivo", Value: 4},
			{Text: "3 – Alerta intermitente", Value: 3},
			{Text: "2 – Acorda com estímulo, mas não mantém alerta", Value: 2},
			{Text: "1 – Acorda apenas com estímulo intenso", Value: 1},
			{Text: "0 – Não desperta", Value: 0},
		}},
		{ID: "audicao", Label: "Audição / Compreensão", MaxPoints: 4, Options: []domain.Option{
			{Text: "4 – Segue comandos consistentes", Value: 4},
			{Text: "3 – Segue comandos inconsistentes", Value: 3},
			{Text: "2 – Localiza som", Value: 2},
			{Text: "1 – Reage ao som sem localização", Value: 1},
			{Text: "0 – Nenhuma resposta auditiva", Value: 0},
		}},
		{ID: "visao", Label: "Visão", MaxPoints: 4, Options: []domain.Option{
			{Text: "4 – Reconhece pessoas/objetos", Value: 4},
			{Text: "3 – Rastreamento visual consistente", Value: 3},
			{Text: "2 – Rastreamento intermitente", Value: 2},
			{Text: "1 – Fixação breve", Value: 1},
			{Text: "0 – Nenhuma resposta visual", Value: 0},
		}},
		{ID: "comunicacao", Label: "Comunicação", MaxPoints: 4, Options: []domain.Option{
			{Text: "4 – Comunicação funcional (SIM/NÃO correta)", Value: 4},
			{Text: "3 – Comunicação não funcional intencional", Value: 3},
			{Text: "2 – Vocalizações intencionais", Value: 2},
			{Text: "1 – Sons não intencionais", Value: 1},
			{Text: "0 – Ausência de vocalização", Value: 0},
		}},
		{ID: "motricidade", Label: "Motricidade Global", MaxPoints: 4, Options: []domain.Option{
			{Text: "4 – Ações motoras funcionais (uso adequado de objeto)", Value: 4},
			{Text: "3 – Movimentos dirigidos / intencionais", Value: 3},
			{Text: "2 – Localiza dor", Value: 2},
			{Text: "1 – Retira ao estímulo doloroso", Value: 1},
			{Text: "0 – Nenhuma resposta motora", Value: 0},
		}},
	},
	Bands: []domain.Band{
		{Level: domain.BandHigh, Text: "Alta Consciência (16-20)", Icon: "✅", Color: "green", Min: 16, Max: 20},
		{Level: domain.BandMinimal, Text: "Consciência Mínima/Emergência (8-15)", Icon: "⚠️", Color: "yellow", Min: 8, Max: 15},
		{Level: domain.BandNoneOrComa, Text: "Coma / Não Responsivo (0-7)", Icon: "🔴", Color: "red", Min: 0, Max: 7},
	},
}

func init() {
	if err := Validate(jfk); err != nil {
		panic(err)
	}
}

// JFK returns a copy of the JFK Emergence Scale definition.
func JFK() domain.ScaleDefinition {
	def := jfk
	def.Items = make([]domain.Item, len(jfk.Items))
	for i, item := range jfk.Items {
		item.Options = append([]domain.Option(nil), item.Options...)
		def.Items[i] = item
	}
	def.Bands = append([]domain.Band(nil), jfk.Bands...)
	return def
}

// Catalog is the built-in set of scales keyed by ID.
func Catalog() map[string]domain.ScaleDefinition {
	return map[string]domain.ScaleDefinition{JFKID: JFK()}
}
