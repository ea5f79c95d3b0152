package domain

// Fixed user-facing messages. The agent speaks Spanish, matching the
// corpus it serves; raw error text never reaches the end user.
const (
	// SentinelNoInformation is the literal answer returned whenever no
	// grounding information exists. Every tool uses the same string so
	// "no answer" is recognisable programmatically.
	SentinelNoInformation = "No tengo esa información específica en mis documentos."

	// MsgRateLimited is shown when the completion capability reports
	// quota exhaustion.
	MsgRateLimited = "Lo siento, he alcanzado mi límite de consultas por ahora. Espera un momento y vuelve a intentarlo."

	// MsgGenericFailure is shown for any other failure of the
	// query-answering path.
	MsgGenericFailure = "Lo siento, tuve un problema al procesar tu consulta. Inténtalo de nuevo."

	// MsgWritingClarification is returned when a writing instruction
	// could not be converted into a valid structured action. No
	// external document is mutated in that case.
	MsgWritingClarification = "No pude entender a qué documento quieres escribir. Indica si la información va al documento de Q&A o a la hoja de itinerario."

	// MsgWritingFailed is returned when the external write operation
	// itself signals failure.
	MsgWritingFailed = "No pude completar la escritura en el documento. Inténtalo de nuevo más tarde."

	// MsgWritingSuccessQnA confirms an append to the Q&A document.
	MsgWritingSuccessQnA = "He añadido la información al documento de Q&A."

	// MsgWritingSuccessItinerary confirms an append to the itinerary sheet.
	MsgWritingSuccessItinerary = "He registrado la entrada en la hoja de itinerario."

	// MsgSyncComplete confirms a manually triggered synchronisation.
	MsgSyncComplete = "¡Sincronización completada! Ya tengo la información más reciente."
)
