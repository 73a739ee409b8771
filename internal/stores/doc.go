// Package stores содержит хранилища состояния витрины и их реестр.
//
// Единственное хранилище сейчас - SessionStore (состояние входа покупателя).
// Реестр Registry отображает имя хранилища в его экземпляр и умеет
// экспортировать снапшот InitialData, который сервер встраивает в страницу,
// а клиент использует для гидратации.
//
// Жизненный цикл реестра задаёт Provider:
//
//   - серверный провайдер строит новый реестр на каждый запрос, поэтому
//     состояние одного покупателя не попадает в чужой запрос;
//   - клиентский провайдер строит реестр один раз и дальше возвращает тот же
//     экземпляр, игнорируя новые снапшоты.
//
// Provider создаётся один раз при старте и передаётся явно, а реестр
// конкретного запроса кладётся в context.Context через WithRegistry.
package stores
